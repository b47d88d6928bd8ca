package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/noteforge/noteforge/internal/domain"
)

// pageImages turns local image paths into pages, inferring the media type from the extension.
func pageImages(paths []string) ([]domain.PageImage, error) {
	images := make([]domain.PageImage, 0, len(paths))
	for i, p := range paths {
		mt, err := mediaTypeFor(p)
		if err != nil {
			return nil, err
		}
		images = append(images, domain.PageImage{Index: i, Path: p, MediaType: mt})
	}
	return images, nil
}

func mediaTypeFor(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	for mt, e := range domain.MediaTypeExtensions {
		if e == ext {
			return mt, nil
		}
	}
	return "", domain.ValidationError(fmt.Sprintf("unsupported image %s: expected .png, .jpg or .webp", path), nil)
}

// defaultOutput derives <dir>/<base><suffix> from an input path.
func defaultOutput(input, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+suffix)
}
