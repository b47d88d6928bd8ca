package convert

import (
	"encoding/base64"
	"net/http"

	"github.com/noteforge/noteforge/internal/domain"
)

// encodedImage is a page image ready to embed in a request body.
type encodedImage struct {
	raw       []byte
	base64    string
	mediaType string
}

func encodeImage(image domain.PageImage) (*encodedImage, error) {
	data, err := image.Read()
	if err != nil {
		return nil, err
	}

	mediaType := image.MediaType
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}

	return &encodedImage{
		raw:       data,
		base64:    base64.StdEncoding.EncodeToString(data),
		mediaType: mediaType,
	}, nil
}

// dataURL renders the image as an RFC 2397 data URL.
func (e *encodedImage) dataURL() string {
	return "data:" + e.mediaType + ";base64," + e.base64
}
