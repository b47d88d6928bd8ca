// Package commands implements the noteforge CLI.
package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/noteforge/noteforge/cmd/noteforge/ui"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/observability"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "noteforge",
	Short: "Turn photographed math notes into LaTeX and PDF",
	Long: `noteforge converts page images of handwritten or printed mathematics into LaTeX
with a vision model or local OCR, and compiles the result to PDF with a TeX engine.
It runs the same pipeline as the NoteForge API without a server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.Init(noColor)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and environment.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger logs to stderr in console form, and only when --verbose is set.
func newLogger(out io.Writer) *observability.Logger {
	if !verbose {
		return observability.Nop()
	}
	return observability.NewLogger(observability.LogConfig{
		Level:  "debug",
		Format: "console",
		Output: out,
	})
}
