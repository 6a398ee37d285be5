package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the configuration file",
	Long: `View and edit ~/.docrag/config.toml (or the file given with --config).

Keys use dot notation, for example llm.provider or rag.k. Values are
checked against the full configuration before they are written, so an
edit that would leave docrag unable to start is rejected.`,
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfigList,
}

var configListCmd = &cobra.Command{
	Use:         "list",
	Short:       "Show the values set in the configuration file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:         "get <key>",
	Short:       "Print one configuration value",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Set a configuration value",
	Long:        "Set a configuration value.\n\nKnown keys:\n  " + strings.Join(file.Keys(), "\n  "),
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := file.NewConfigStore(cfgFile)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	store, err := file.NewConfigStore(cfgFile)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	values := store.All()
	if len(values) == 0 {
		cmd.Printf("No values set in %s; defaults apply.\n", store.Path())
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%s = %s\n", k, displayValue(k, values[k]))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := file.NewConfigStore(cfgFile)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set in %s", args[0], store.Path())
	}
	cmd.Println(displayValue(args[0], val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := file.NewConfigStore(cfgFile)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	key, raw := args[0], args[1]
	if err := file.NewSettingsStore(store).Set(key, raw); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, displayValue(key, raw))
	return nil
}

// displayValue renders a stored value, masking secrets.
func displayValue(key string, val any) string {
	s := fmt.Sprint(val)
	if strings.HasSuffix(key, ".api_key") {
		return maskAPIKey(s)
	}
	return s
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
