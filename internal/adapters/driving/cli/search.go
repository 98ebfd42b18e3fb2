package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchFilter   string
	searchType     string
	searchCategory string
	searchTags     []string
	searchAfter    string
	searchBefore   string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored articles",
	Long: `Performs semantic search over article embeddings, ranked by cosine
similarity. Relational filters narrow the candidates after retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results (overrides the configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "filters as a JSON object")
	searchCmd.Flags().StringVar(&searchType, "type", "", "filter by document type (law, regulation, decree)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter by category")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "filter by tag (repeatable, any match)")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "only documents published on or after DATE (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "only documents published on or before DATE (YYYY-MM-DD)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}

	k := searchLimit
	if !cmd.Flags().Changed("limit") && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		k = settings.Search.DefaultLimit
	}

	results, err := retrievalService.Search(context.Background(), query, k, filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

// buildFilters merges the --filter JSON object with the individual flags.
// Individual flags win on conflict.
func buildFilters() (domain.Filters, error) {
	var f domain.Filters
	if searchFilter != "" {
		parsed, err := domain.ParseFilters([]byte(searchFilter))
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid --filter: %w", err)
		}
		f = parsed
	}

	if searchType != "" {
		f.DocumentType = searchType
	}
	if searchCategory != "" {
		f.Category = searchCategory
	}
	if len(searchTags) > 0 {
		f.Tags = searchTags
	}
	if searchAfter != "" {
		t, err := time.Parse("2006-01-02", searchAfter)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid --after date %q: %w", searchAfter, err)
		}
		f.DateAfter = &t
	}
	if searchBefore != "" {
		t, err := time.Parse("2006-01-02", searchBefore)
		if err != nil {
			return domain.Filters{}, fmt.Errorf("invalid --before date %q: %w", searchBefore, err)
		}
		f.DateBefore = &t
	}
	return f, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s, %s (%.2f)\n", i+1, r.Metadata.LawTitle, r.Metadata.ArticleNumber, r.Similarity)

		content := r.Content
		if runes := []rune(content); len(runes) > 200 {
			content = string(runes[:200]) + "…"
		}
		cmd.Printf("      %s\n", content)
		cmd.Println()
	}
	return nil
}
