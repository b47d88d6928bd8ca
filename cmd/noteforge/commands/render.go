package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/noteforge/noteforge/cmd/noteforge/ui"
	"github.com/noteforge/noteforge/internal/compile"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/observability"
	"github.com/noteforge/noteforge/internal/store"
)

var (
	renderOutput string
	renderEngine string
)

var renderCmd = &cobra.Command{
	Use:   "render <file.tex | document-id>",
	Short: "Compile LaTeX to PDF",
	Long: `Compile a .tex file to PDF with the configured engine. The argument may also be
a document id, in which case the artifact stored by the API under storage.root is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output .pdf path (default: <input>.pdf)")
	renderCmd.Flags().StringVar(&renderEngine, "engine", "", "LaTeX engine override")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if renderEngine != "" {
		cfg.Compiler.Engine = renderEngine
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())
	arg := args[0]

	var latex string
	if id, err := uuid.Parse(arg); err == nil {
		latex, err = store.NewFSStore(cfg.LatexPath(), nil).Get(ctx, id.String())
		if err != nil {
			return err
		}
		if renderOutput == "" {
			renderOutput = id.String() + ".pdf"
		}
	} else {
		data, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("read %s: %w", arg, err)
		}
		latex = string(data)
		if renderOutput == "" {
			renderOutput = defaultOutput(arg, ".pdf")
		}
	}

	return renderFile(ctx, cfg, logger, latex, renderOutput)
}

// renderFile compiles latex and writes the PDF to out.
func renderFile(ctx context.Context, cfg *config.Config, logger *observability.Logger, latex, out string) error {
	compiler, err := compile.New(compile.Options{
		Engine:       cfg.Compiler.Engine,
		Binary:       cfg.Compiler.Binary,
		Timeout:      cfg.Compiler.Timeout,
		ScratchRoot:  cfg.Compiler.ScratchRoot,
		LogTailBytes: cfg.Compiler.LogTailBytes,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	spin := ui.NewSpinner(fmt.Sprintf("Compiling with %s...", cfg.Compiler.Engine))
	spin.Start()
	result, err := compiler.Compile(ctx, latex, out)
	spin.Stop()
	if err != nil {
		ui.Error("Compilation failed")
		return err
	}

	if result.Pages > 0 {
		ui.Success("Wrote %s (%d pages)", result.Path, result.Pages)
	} else {
		ui.Success("Wrote %s", result.Path)
	}
	return nil
}
