// Package rasterize splits a scanned PDF into one PNG per page so it can be fed to a PageConverter.
package rasterize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/noteforge/noteforge/internal/domain"
)

// DefaultDPI renders handwriting legibly without producing oversized uploads.
const DefaultDPI = 150

// Rasterizer renders PDF pages to PNG files.
type Rasterizer struct {
	dpi float64
}

// New creates a Rasterizer. A non-positive dpi uses DefaultDPI.
func New(dpi float64) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{dpi: dpi}
}

// Rasterize writes page_001.png, page_002.png, ... into outDir and returns them in page order.
// progress, when non-nil, is called after each page with the 1-based page number and the total.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir string, progress func(page, total int)) ([]domain.PageImage, error) {
	if err := ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, domain.IOError("Failed to create output directory", err)
	}

	images := make([]domain.PageImage, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, domain.ConversionError("rasterization cancelled", err)
		}

		png, err := doc.ImagePNG(n, r.dpi)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", n+1), err)
		}

		outputPath := filepath.Join(outDir, fmt.Sprintf("page_%03d.png", n+1))
		if err := os.WriteFile(outputPath, png, 0o644); err != nil {
			return nil, domain.IOError(fmt.Sprintf("Failed to write page %d", n+1), err)
		}

		images = append(images, domain.PageImage{Index: n, Path: outputPath, MediaType: "image/png"})
		if progress != nil {
			progress(n+1, pageCount)
		}
	}

	return images, nil
}

// ValidatePDFPath checks that path names a readable, non-directory .pdf file.
func ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return domain.ValidationError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}

	return nil
}
