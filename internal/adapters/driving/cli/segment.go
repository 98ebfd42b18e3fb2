package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikolarss0n/legal-assistant/internal/segmenter"
)

var (
	segmentJSON      bool
	segmentMinLength int
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file.txt]",
	Short: "Split a law text into articles",
	Long: `Splits raw legal text into articles on their marker lines and prints
the segments. Text before the first marker becomes a Preamble segment.
Runs offline; nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().BoolVar(&segmentJSON, "json", false, "output segments as JSON")
	segmentCmd.Flags().IntVar(&segmentMinLength, "min-length", segmenter.DefaultMinContentLength,
		"drop segments at or below this content length")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	seg := segmenter.New(segmenter.WithMinContentLength(segmentMinLength))
	segments := seg.Segment(string(data))

	if segmentJSON {
		out, err := json.MarshalIndent(segments, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal segments: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("%d segments:\n\n", len(segments))
	for i := range segments {
		preview := segments[i].Content
		if runes := []rune(preview); len(runes) > 120 {
			preview = string(runes[:120]) + "…"
		}
		cmd.Printf("  %s\n      %s\n\n", segments[i].Number, preview)
	}
	return nil
}
