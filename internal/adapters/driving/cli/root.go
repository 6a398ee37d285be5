// Package cli provides the docrag command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// skipConfig marks commands that run without loading settings.
const skipConfig = "skip-config"

var (
	cfgFile string
	envFile string
	verbose bool

	// app builds real services on demand. Tests inject mocks through the
	// service variables below instead.
	app *wiring

	ingestionService driving.IngestionService
	queryService     driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Ask questions about a folder of PDF and Markdown documents",
	Long: `docrag ingests PDF and Markdown files dropped into <docs>/unprocessed,
stores their chunks as vectors and answers questions in Spanish with a
JSON object holding the answer, the source document and the page.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.docrag/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "env file with provider credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeApp()
	defer logger.Sync()
	return rootCmd.ExecuteContext(ctx)
}

func initApp(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[skipConfig] == "true" || app != nil {
		return nil
	}

	if err := file.LoadEnv(envFile); err != nil {
		return err
	}

	store, err := file.NewConfigStore(cfgFile)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings, err := file.NewSettingsStore(store).Load()
	if err != nil {
		return err
	}
	logger.Debug("config: %s", store.Path())

	app = newWiring(settings)
	return nil
}

func closeApp() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	app = nil
}

// requireIngestion returns the injected ingestion service or builds one.
func requireIngestion(cmd *cobra.Command) (driving.IngestionService, error) {
	if ingestionService != nil {
		return ingestionService, nil
	}
	if app == nil {
		return nil, errors.New("ingestion service not configured")
	}
	return app.ingestionService(cmd.Context())
}

// requireQuery returns the injected query service or builds one.
func requireQuery(cmd *cobra.Command) (driving.QueryService, error) {
	if queryService != nil {
		return queryService, nil
	}
	if app == nil {
		return nil, errors.New("query service not configured")
	}
	return app.queryService(cmd.Context())
}

// currentSettings returns the loaded settings, or defaults when none were loaded.
func currentSettings() domain.Settings {
	if app == nil {
		return domain.DefaultSettings()
	}
	return app.settings
}

// printJSON writes v as indented JSON without HTML escaping.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
