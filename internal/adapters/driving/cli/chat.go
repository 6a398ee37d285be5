package cli

import (
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions in an interactive terminal UI",
	Long: `Open a full-screen chat over the ingested documents. Each answer shows the
source document and page. Press f1 for keybindings.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("region", "", "only use chunks tagged with this region")
	chatCmd.Flags().IntP("k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	rootCmd.AddCommand(chatCmd)
}

// runProgram is replaced in tests.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func runChat(cmd *cobra.Command, _ []string) error {
	region, _ := cmd.Flags().GetString("region")
	k, _ := cmd.Flags().GetInt("k")

	query, err := requireQuery(cmd)
	if err != nil {
		return err
	}

	ports := &tui.Ports{Query: query}
	if ingestion, err := requireIngestion(cmd); err != nil {
		logger.Warn("chat: ingestion disabled: %v", err)
	} else {
		ports.Ingestion = ingestion
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context()).WithOptions(driving.QueryOptions{Region: region, K: k})

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	err = runProgram(app)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
