package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reindexArticleID string

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector collection",
	Long: `Drops the vector collection and re-embeds every stored article from
the relational store. Use after switching embedding providers or to
repair a collection that fell behind the store.

With --article, re-embeds only the named article instead of rebuilding
the whole collection.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().StringVar(&reindexArticleID, "article", "", "re-embed a single article by id")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if reindexArticleID != "" {
		if err := ingestService.ReembedArticle(context.Background(), reindexArticleID); err != nil {
			return fmt.Errorf("re-embed failed: %w", err)
		}
		cmd.Printf("Re-embedded article %s.\n", reindexArticleID)
		return nil
	}

	n, err := ingestService.Reindex(context.Background())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Re-embedded %d articles.\n", n)
	return nil
}
