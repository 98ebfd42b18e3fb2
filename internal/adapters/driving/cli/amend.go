package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

var (
	amendLaw         string
	amendDate        string
	amendDescription string
	amendText        string
	amendArticles    []string
	amendURL         string
)

var amendCmd = &cobra.Command{
	Use:   "amend",
	Short: "Record an amendment to a stored law",
	Long: `Records an amendment against a stored document. Every affected
article id must reference an existing article; otherwise the amendment is
rejected and nothing is written.`,
	RunE: runAmend,
}

func init() {
	amendCmd.Flags().StringVar(&amendLaw, "law", "", "document id of the amended law (required)")
	amendCmd.Flags().StringVar(&amendDate, "date", "", "enactment date, YYYY-MM-DD (required)")
	amendCmd.Flags().StringVar(&amendDescription, "description", "", "summary of the change (required)")
	amendCmd.Flags().StringVar(&amendText, "text", "", "full amendment text")
	amendCmd.Flags().StringSliceVar(&amendArticles, "article", nil, "affected article id (repeatable)")
	amendCmd.Flags().StringVar(&amendURL, "url", "", "source URL")
	_ = amendCmd.MarkFlagRequired("law")
	_ = amendCmd.MarkFlagRequired("date")
	_ = amendCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(amendCmd)
}

func runAmend(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	date, err := time.Parse("2006-01-02", amendDate)
	if err != nil {
		return fmt.Errorf("invalid --date %q: %w", amendDate, err)
	}

	amendment := &domain.Amendment{
		LawID:            amendLaw,
		Date:             date,
		Description:      amendDescription,
		Text:             amendText,
		AffectedArticles: amendArticles,
		SourceURL:        amendURL,
	}

	id, err := ingestService.IngestAmendment(context.Background(), amendment)
	if err != nil {
		return fmt.Errorf("amend failed: %w", err)
	}

	cmd.Printf("Recorded amendment %s.\n", id)
	return nil
}
