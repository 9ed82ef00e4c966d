package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/config"
	"github.com/new-divos/pkbassist/internal/ui"
)

var configSetUpdate bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the application configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration property",
	Long: `Set a configuration property by its dotted key, for example
"vault.root" or "apod.key". With --update, changing vault.root re-expresses
the stored sub-paths relative to the new root.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1], configSetUpdate); err != nil {
			return err
		}
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, ui.Successf("%s set", args[0]))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration properties",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := ui.NewTable("Key", "Value")
		for _, kv := range [][2]string{
			{"vault.root", cfg.Vault.Root},
			{"vault.files", cfg.Vault.Files},
			{"vault.daily", cfg.Vault.Daily},
			{"vault.base", cfg.Vault.Base},
			{"apod.path", cfg.APOD.Path},
			{"apod.banner", cfg.APOD.Banner},
			{"apod.icon", cfg.APOD.Icon},
			{"apod.prefix", cfg.APOD.Prefix},
			{"apod.marker", cfg.APOD.Marker},
			{"twir.path", cfg.TWiR.Path},
			{"twir.banner", cfg.TWiR.Banner},
			{"twir.icon", cfg.TWiR.Icon},
			{"twir.prefix", cfg.TWiR.Prefix},
			{"twir.marker", cfg.TWiR.Marker},
			{"raindrop.path", cfg.Raindrop.Path},
			{"raindrop.prefix", cfg.Raindrop.Prefix},
		} {
			if kv[1] != "" {
				table.AddRow(kv[0], kv[1])
			}
		}
		if table.Len() == 0 {
			fmt.Fprintln(os.Stdout, ui.Warning("the configuration is empty"))
			return nil
		}
		fmt.Fprintln(os.Stdout, table.String())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

func saveConfig() error {
	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

func init() {
	configSetCmd.Flags().BoolVar(&configSetUpdate, "update", false, "Rebase stored sub-paths when changing vault.root")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
