package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noteforge/noteforge/cmd/noteforge/ui"
	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/rasterize"
)

var (
	rasterizeOutput string
	rasterizeDPI    float64
)

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize <scan.pdf>",
	Short: "Split a scanned PDF into page PNGs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := rasterizeOutput
		if out == "" {
			out = defaultOutput(args[0], "-pages")
		}

		images, err := rasterizeWithProgress(ctx, args[0], out, rasterizeDPI)
		if err != nil {
			return err
		}

		for _, img := range images {
			fmt.Fprintln(cmd.OutOrStdout(), img.Path)
		}
		ui.Success("Rasterized %d pages into %s", len(images), out)
		return nil
	},
}

func init() {
	rasterizeCmd.Flags().StringVarP(&rasterizeOutput, "output", "o", "", "output directory (default: <input>-pages)")
	rasterizeCmd.Flags().Float64Var(&rasterizeDPI, "dpi", rasterize.DefaultDPI, "render resolution")
	rootCmd.AddCommand(rasterizeCmd)
}

func rasterizeWithProgress(ctx context.Context, pdfPath, outDir string, dpi float64) ([]domain.PageImage, error) {
	var bar *ui.ProgressBar
	images, err := rasterize.New(dpi).Rasterize(ctx, pdfPath, outDir, func(page, total int) {
		if bar == nil {
			bar = ui.NewProgressBar(total, "Rasterizing")
		}
		bar.Set(page)
	})
	if bar != nil {
		bar.Finish()
	}
	return images, err
}
