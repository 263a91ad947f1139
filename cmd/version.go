package cmd

import (
	"fmt"

	"github.com/kayz/kbmcp/internal/mcp"
	"github.com/spf13/cobra"
)

var build = "unknown"

// SetBuild sets the build string from main
func SetBuild(b string) {
	build = b
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// version must work even with a broken config file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kbmcp %s (%s)\n", mcp.ServerVersion, build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
