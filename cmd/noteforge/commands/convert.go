package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noteforge/noteforge/cmd/noteforge/ui"
	"github.com/noteforge/noteforge/internal/assemble"
	"github.com/noteforge/noteforge/internal/convert"
	"github.com/noteforge/noteforge/internal/rasterize"
)

var (
	convertOutput  string
	convertPDF     string
	convertBackend string
	convertModel   string
	convertRender  bool
	convertDPI     float64
)

var convertCmd = &cobra.Command{
	Use:   "convert [image...]",
	Short: "Convert page images (or a scanned PDF) to LaTeX",
	Long: `Convert one or more page images to a single LaTeX document. Pages are converted
in the order given. With --pdf, a scanned PDF is rasterized first and each of its
pages is converted. With --render, the result is also compiled to PDF.`,
	Example: `  noteforge convert page1.jpg page2.jpg -o lecture.tex
  noteforge convert --pdf scan.pdf --render`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output .tex path (default: <first input>.tex)")
	convertCmd.Flags().StringVar(&convertPDF, "pdf", "", "scanned PDF to rasterize and convert")
	convertCmd.Flags().StringVar(&convertBackend, "backend", "", "converter backend override (anthropic, openrouter, openai, vertex, tesseract)")
	convertCmd.Flags().StringVar(&convertModel, "model", "", "model override for the chosen backend")
	convertCmd.Flags().BoolVar(&convertRender, "render", false, "also compile the result to PDF")
	convertCmd.Flags().Float64Var(&convertDPI, "dpi", rasterize.DefaultDPI, "rasterization DPI for --pdf")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertPDF == "" && len(args) == 0 {
		return fmt.Errorf("provide at least one image or --pdf")
	}
	if convertPDF != "" && len(args) > 0 {
		return fmt.Errorf("--pdf cannot be combined with image arguments")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if convertBackend != "" {
		cfg.Converter.Backend = convertBackend
	}
	if convertModel != "" {
		cfg.Converter.Model = convertModel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())

	input := convertPDF
	var paths []string
	if convertPDF != "" {
		tmp, err := os.MkdirTemp("", "noteforge-pages-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)

		images, err := rasterizeWithProgress(ctx, convertPDF, tmp, convertDPI)
		if err != nil {
			return err
		}
		for _, img := range images {
			paths = append(paths, img.Path)
		}
	} else {
		input = args[0]
		paths = args
	}

	images, err := pageImages(paths)
	if err != nil {
		return err
	}

	conv, closeConv, err := convert.New(ctx, cfg.Converter, logger)
	if err != nil {
		return err
	}
	defer closeConv()

	ui.Info("Converting %d page(s) with %s", len(images), cfg.Converter.Backend)
	bar := ui.NewProgressBar(len(images), "Converting")
	asm := assemble.NewAssembler(conv,
		assemble.WithLogger(logger),
		assemble.WithProgress(func(ev assemble.PageEvent) {
			if ev.Done {
				bar.Set(ev.Index + 1)
			} else {
				bar.Describe(fmt.Sprintf("Page %d/%d (%s)", ev.Index+1, ev.Total, ev.Role))
			}
		}),
	)

	latex, err := asm.Assemble(ctx, images)
	if err != nil {
		ui.Error("Conversion failed")
		return err
	}
	bar.Finish()

	out := convertOutput
	if out == "" {
		out = defaultOutput(input, ".tex")
	}
	if err := os.WriteFile(out, []byte(latex), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	ui.Success("Wrote %s (%d pages)", out, len(images))

	if convertRender {
		return renderFile(ctx, cfg, logger, latex, defaultOutput(out, ".pdf"))
	}
	return nil
}
