package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nikolarss0n/legal-assistant/internal/logger"
)

// settleDelay gives scrapers time to finish writing before a file is
// imported. Writes reset the timer, so a slowly appended file imports
// once, after the last write.
const settleDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and import new JSON files",
	Long: `Watches a directory and imports every JSON file that appears or
changes, using the same pipeline as ingest. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&importCategory, "category", "labor", "category applied to imported documents")
	watchCmd.Flags().StringSliceVar(&importTags, "tag", []string{"labor"}, "tags applied to imported documents (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for JSON files. Press Ctrl+C to stop.\n", dir)

	// One timer per path, reset on every write.
	pending := make(map[string]*time.Timer)
	imports := make(chan string)

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-imports:
			delete(pending, path)
			importFile(ctx, cmd, path)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !isImportable(event.Name) {
				continue
			}
			path := event.Name
			if t, ok := pending[path]; ok {
				t.Reset(settleDelay)
				continue
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case imports <- path:
				case <-ctx.Done():
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// isImportable keeps visible .json files only.
func isImportable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".json")
}

func importFile(ctx context.Context, cmd *cobra.Command, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}
	defer f.Close()

	ids, err := ingestService.ImportJSON(ctx, f)
	if err != nil {
		cmd.PrintErrf("Import of %s failed after %d documents: %v\n", path, len(ids), err)
		return
	}
	cmd.Printf("Imported %d documents from %s.\n", len(ids), path)
}
