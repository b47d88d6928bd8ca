package handlers

import (
	"cmp"
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/noteforge/noteforge/internal/domain"
	"github.com/noteforge/noteforge/internal/ingest"
	"github.com/noteforge/noteforge/internal/observability"
)

const multipartMemory = 32 << 20

// Uploader persists a validated set of page images.
type Uploader interface {
	Save(files []ingest.File, multiPage bool) (*ingest.Upload, error)
}

// UploadHandler handles POST /upload.
type UploadHandler struct {
	logger       *observability.Logger
	uploads      Uploader
	maxBodyBytes int64
}

// UploadResponse is returned on a successful upload.
type UploadResponse struct {
	Status      string   `json:"status"`
	FileID      string   `json:"file_id"`
	Filename    string   `json:"filename"`
	Filenames   []string `json:"filenames"`
	IsMultiPage bool     `json:"is_multi_page"`
}

// NewUploadHandler creates an upload handler. maxBodyBytes bounds the whole request body.
func NewUploadHandler(logger *observability.Logger, uploads Uploader, maxBodyBytes int64) *UploadHandler {
	return &UploadHandler{
		logger:       logger,
		uploads:      uploads,
		maxBodyBytes: maxBodyBytes,
	}
}

// Upload accepts one or more image parts in any form field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeDomainError(w, r, h.logger, domain.IOError("Failed to process multipart form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	multiPage := false
	if v := r.FormValue("is_multi_page"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid is_multi_page value %q", v))
			return
		}
		multiPage = b
	}

	headers := collectFiles(r.MultipartForm)
	files := make([]ingest.File, 0, len(headers))
	var total int64
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeDomainError(w, r, h.logger, domain.IOError("Failed to read file data", err))
			return
		}
		defer f.Close()

		files = append(files, ingest.File{
			Name:      fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Size:      fh.Size,
			Body:      f,
		})
		total += fh.Size
	}

	upload, err := h.uploads.Save(files, multiPage)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	h.logger.WithContext(r.Context()).Info().
		Str("file_id", upload.ID.String()).
		Int("files", len(upload.Filenames)).
		Int64("bytes", total).
		Bool("multi_page", upload.MultiPage).
		Msg("File uploaded successfully")

	writeJSON(w, http.StatusOK, UploadResponse{
		Status:      "success",
		FileID:      upload.ID.String(),
		Filename:    upload.Filenames[0],
		Filenames:   upload.Filenames,
		IsMultiPage: upload.MultiPage,
	})
}

// collectFiles returns every file part, ordered by field name and then by position within the field.
// A trailing page number in the field name compares numerically, so file_2 precedes file_10.
func collectFiles(form *multipart.Form) []*multipart.FileHeader {
	fields := make([]string, 0, len(form.File))
	for name := range form.File {
		fields = append(fields, name)
	}
	slices.SortFunc(fields, compareFields)

	var out []*multipart.FileHeader
	for _, name := range fields {
		out = append(out, form.File[name]...)
	}
	return out
}

func compareFields(a, b string) int {
	pa, na := splitPageNumber(a)
	pb, nb := splitPageNumber(b)
	return cmp.Or(
		strings.Compare(pa, pb),
		cmp.Compare(na, nb),
		strings.Compare(a, b),
	)
}

// splitPageNumber splits "file_12" into ("file_", 12). Names without a trailing number get -1.
func splitPageNumber(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return name, -1
	}
	return name[:i], n
}
