package cli

import (
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest new documents",
	Long: `Load every PDF and Markdown file in <docs>/unprocessed, split it into
chunks, embed the chunks and store them in the vector store. Files that were
loaded are moved to <docs>/processed.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	svc, err := requireIngestion(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if svc.Ingest(ctx) {
		cmd.Println("Ingested new documents.")
	} else {
		cmd.Println("Nothing ingested.")
	}

	return printJSON(cmd, svc.Stats(ctx))
}
