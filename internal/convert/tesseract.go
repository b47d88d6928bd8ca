package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/noteforge/noteforge/internal/domain"
)

// TesseractClient runs the local tesseract binary. It ignores the page role.
type TesseractClient struct {
	binary   string
	language string
}

// NewTesseractClient creates an OCR converter. Empty values default to "tesseract" and "eng".
func NewTesseractClient(binary, language string) *TesseractClient {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractClient{binary: binary, language: language}
}

// Convert runs `tesseract <image> stdout -l <lang>` and returns stdout.
func (c *TesseractClient) Convert(ctx context.Context, image domain.PageImage, _ domain.PageRole) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.binary, image.Path, "stdout", "-l", c.language)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", domain.ConversionError(fmt.Sprintf("tesseract failed on %s: %s", image.Path, msg), err)
	}

	return stdout.String(), nil
}
