package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Ingest on a cron schedule",
	Long: `Run ingestion on a five-field cron schedule. A tick is skipped while the
previous run is still going. Runs until interrupted.`,
	Example: `  docrag schedule
  docrag schedule --cron "0 * * * *"
  docrag schedule --cron @hourly --now`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().String("cron", "", "cron expression (default from config)")
	scheduleCmd.Flags().Bool("now", false, "run once immediately before waiting for the first tick")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	spec, _ := cmd.Flags().GetString("cron")
	now, _ := cmd.Flags().GetBool("now")
	if spec == "" {
		spec = currentSettings().Schedule.Cron
	}
	if err := schedule.ValidateSpec(spec); err != nil {
		return err
	}

	svc, err := requireIngestion(cmd)
	if err != nil {
		return err
	}

	report := printResult(cmd)
	scheduler, err := schedule.NewCronScheduler(spec, svc, schedule.WithResultHandler(report))
	if err != nil {
		return err
	}

	if now {
		report(scheduler.RunOnce(cmd.Context()))
	}

	cmd.Printf("Scheduled ingestion: %s\n", spec)
	return ignoreCanceled(scheduler.Start(cmd.Context()))
}
