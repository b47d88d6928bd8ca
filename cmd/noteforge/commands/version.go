package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noteforge/noteforge/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the noteforge version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "noteforge version %s\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
