package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	importCategory string
	importTags     []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.json]",
	Short: "Import scraped laws from a JSON file",
	Long: `Ingests an array of scraped law records as produced by the fetcher
pipeline. Each law is stored with its articles and every article is
embedded into the vector collection. Records carrying an "error" key are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&importCategory, "category", "labor", "category applied to imported documents")
	ingestCmd.Flags().StringSliceVar(&importTags, "tag", []string{"labor"}, "tags applied to imported documents (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	ids, err := ingestService.ImportJSON(context.Background(), f)
	if err != nil {
		return fmt.Errorf("import failed after %d documents: %w", len(ids), err)
	}

	cmd.Printf("Imported %d documents.\n", len(ids))
	return nil
}
