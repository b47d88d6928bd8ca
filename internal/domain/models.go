package domain

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// PageBreak separates consecutive page fragments in an assembled document.
const PageBreak = "\\newpage\n"

// Allowed upload media types and the file extension each is stored under.
var MediaTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Document is the persisted result of one successful conversion.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDocument builds the record for an assembled LaTeX text.
func NewDocument(id uuid.UUID, content string) *Document {
	return &Document{
		ID:        id,
		Filename:  id.String() + ".tex",
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// PageImage references one uploaded page on disk
type PageImage struct {
	Index     int    // zero-based position in the submission
	Path      string // file path under the uploads directory
	MediaType string // declared MIME type, e.g. image/png
}

// Read loads the raw image bytes.
func (p PageImage) Read() ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, IOError(fmt.Sprintf("failed to read image %s", p.Path), err)
	}
	return data, nil
}

// PageRole is the structural position of a page within its document.
type PageRole string

const (
	RoleSingle PageRole = "single"
	RoleFirst  PageRole = "first"
	RoleMiddle PageRole = "middle"
	RoleLast   PageRole = "last"
)

// RenderResult is a compiled PDF. It is regenerated on every render.
type RenderResult struct {
	PDF      []byte
	Path     string // durable copy, empty when none was written
	Filename string
	Pages    int // 0 when the page count could not be determined
}
