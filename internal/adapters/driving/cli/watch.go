package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/watch"
	"github.com/custodia-labs/docrag/internal/connectors/filesystem"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/normalisers"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest whenever files land in the unprocessed directory",
	Long: `Ingest once, then watch <docs>/unprocessed and ingest again after new
or changed files have been quiet for the debounce period. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "quiet period before ingesting (0 = configured default)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	settings := currentSettings()
	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce <= 0 {
		debounce = settings.Ingest.WatchDebounce
	}

	svc, err := requireIngestion(cmd)
	if err != nil {
		return err
	}

	dir := settings.Docs.UnprocessedDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	source := filesystem.New(dir, normalisers.NewDefaultRegistry().SupportedExtensions())
	defer source.Close()

	scheduler, err := watch.New(source, svc, debounce, watch.WithResultHandler(printResult(cmd)))
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (debounce %s)\n", source.Root(), debounce)
	return ignoreCanceled(scheduler.Start(cmd.Context()))
}

// printResult reports each run on the command's output.
func printResult(cmd *cobra.Command) func(domain.TaskResult) {
	return func(r domain.TaskResult) {
		if r.Success {
			cmd.Printf("%s: ingested in %s\n", r.TaskID, r.Duration().Round(time.Millisecond))
			return
		}
		cmd.Printf("%s: %s\n", r.TaskID, r.Error)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
