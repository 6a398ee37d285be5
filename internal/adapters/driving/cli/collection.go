package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := requireIngestion(cmd)
		if err != nil {
			return err
		}
		return printJSON(cmd, svc.Stats(cmd.Context()))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the vector store collection",
	Long: `Delete the collection and every point in it. Processed files are not
moved back; copy them to <docs>/unprocessed to ingest them again.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return errors.New("reset deletes the collection; re-run with --yes to confirm")
	}

	svc, err := requireIngestion(cmd)
	if err != nil {
		return err
	}

	if !svc.Reset(cmd.Context()) {
		return errors.New("reset failed")
	}
	cmd.Println("Collection deleted.")
	return nil
}
