package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the effective configuration as YAML.

With --save the configuration is written to the config file instead, so
flags and environment overrides given now become the new defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if saveConfig {
			if err := cfg.Save(cfgPath); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", cfgPath)
			return err
		}

		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective configuration to the config file")
	rootCmd.AddCommand(configCmd)
}
