// Package ingest stores uploaded page images and resolves them back into ordered pages.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/noteforge/noteforge/internal/domain"
)

// File is one uploaded image part.
type File struct {
	Name      string // client filename, informational only
	MediaType string
	Size      int64
	Body      io.Reader
}

// Upload describes a stored submission.
type Upload struct {
	ID        uuid.UUID
	Filenames []string
	MultiPage bool
}

// Limits bounds what Save accepts.
type Limits struct {
	MaxFileSize  int64
	MaxFiles     int
	AllowedTypes []string
}

// Store keeps uploads as flat files in one directory.
type Store struct {
	dir    string
	limits Limits
}

// pagePattern matches <uuid>-NNN.<ext> and the unnumbered <uuid>.<ext>.
var pagePattern = regexp.MustCompile(`^([0-9a-f-]{36})(?:-(\d{3,}))?\.([a-z]+)$`)

// NewStore creates a Store writing into dir.
func NewStore(dir string, limits Limits) *Store {
	return &Store{dir: dir, limits: limits}
}

// Save validates every part before writing any of them. One file is stored as <id>.<ext>;
// several are stored as <id>-000.<ext>, <id>-001.<ext>, ... in submission order.
func (s *Store) Save(files []File, multiPage bool) (*Upload, error) {
	if len(files) == 0 {
		return nil, domain.ValidationError("No file provided", nil)
	}
	if s.limits.MaxFiles > 0 && len(files) > s.limits.MaxFiles {
		return nil, domain.ValidationError(fmt.Sprintf("Too many files. Maximum is %d", s.limits.MaxFiles), nil)
	}

	exts := make([]string, len(files))
	for i, f := range files {
		ext, err := s.check(f)
		if err != nil {
			return nil, err
		}
		exts[i] = ext
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, domain.IOError("Failed to create upload directory", err)
	}

	upload := &Upload{
		ID:        uuid.New(),
		MultiPage: multiPage || len(files) > 1,
	}

	for i, f := range files {
		name := upload.ID.String() + "." + exts[i]
		if upload.MultiPage {
			name = fmt.Sprintf("%s-%03d.%s", upload.ID, i, exts[i])
		}
		if err := s.write(name, f.Body); err != nil {
			s.remove(upload.Filenames)
			return nil, err
		}
		upload.Filenames = append(upload.Filenames, name)
	}

	return upload, nil
}

func (s *Store) check(f File) (string, error) {
	if !slices.Contains(s.limits.AllowedTypes, f.MediaType) {
		return "", domain.ValidationError(fmt.Sprintf("Unsupported file type: %s. Allowed types: %s",
			f.MediaType, strings.Join(s.limits.AllowedTypes, ", ")), nil)
	}
	ext, ok := domain.MediaTypeExtensions[f.MediaType]
	if !ok {
		return "", domain.ValidationError("Invalid mime type", nil)
	}
	if s.limits.MaxFileSize > 0 && f.Size > s.limits.MaxFileSize {
		return "", domain.ValidationError(fmt.Sprintf("File too large. Maximum size is %d bytes", s.limits.MaxFileSize), nil)
	}
	return ext, nil
}

func (s *Store) write(name string, body io.Reader) error {
	path := filepath.Join(s.dir, name)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.IOError("Failed to create file", err)
	}

	// The declared size can lie; enforce the limit on what is actually read.
	r := body
	if s.limits.MaxFileSize > 0 {
		r = io.LimitReader(body, s.limits.MaxFileSize+1)
	}
	n, err := io.Copy(out, r)
	closeErr := out.Close()
	if err != nil {
		os.Remove(path)
		return domain.IOError("Failed to write file", err)
	}
	if closeErr != nil {
		os.Remove(path)
		return domain.IOError("Failed to write file", closeErr)
	}
	if s.limits.MaxFileSize > 0 && n > s.limits.MaxFileSize {
		os.Remove(path)
		return domain.ValidationError(fmt.Sprintf("File too large. Maximum size is %d bytes", s.limits.MaxFileSize), nil)
	}
	return nil
}

func (s *Store) remove(names []string) {
	for _, name := range names {
		os.Remove(filepath.Join(s.dir, name))
	}
}

// Resolve finds the stored pages for id. A single-page lookup accepts <id>.<ext> for any allowed
// extension. A multi-page lookup returns every page stored under id ordered by sequence number,
// so a lone <id>.<ext> upload resolves as a one-page document.
func (s *Store) Resolve(id uuid.UUID, multiPage bool) ([]domain.PageImage, error) {
	if multiPage {
		return s.resolvePages(id)
	}

	for _, mediaType := range s.limits.AllowedTypes {
		ext, ok := domain.MediaTypeExtensions[mediaType]
		if !ok {
			continue
		}
		path := filepath.Join(s.dir, id.String()+"."+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return []domain.PageImage{{Index: 0, Path: path, MediaType: mediaType}}, nil
		}
	}
	return nil, domain.NotFoundError(fmt.Sprintf("File not found: %s", id), nil)
}

func (s *Store) resolvePages(id uuid.UUID) ([]domain.PageImage, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, domain.NotFoundError(fmt.Sprintf("No files found for ID %s", id), nil)
	}
	if err != nil {
		return nil, domain.IOError("Failed to read directory", err)
	}

	types := make(map[string]string)
	for mediaType, ext := range s.extensions() {
		types[ext] = mediaType
	}

	type page struct {
		seq  int
		path string
		mt   string
	}
	var pages []page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pagePattern.FindStringSubmatch(e.Name())
		if m == nil || m[1] != id.String() {
			continue
		}
		mt, ok := types[m[3]]
		if !ok {
			continue
		}
		seq := 0
		if m[2] != "" {
			if seq, err = strconv.Atoi(m[2]); err != nil {
				continue
			}
		}
		pages = append(pages, page{seq: seq, path: filepath.Join(s.dir, e.Name()), mt: mt})
	}

	if len(pages) == 0 {
		return nil, domain.NotFoundError(fmt.Sprintf("No files found for ID %s", id), nil)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].seq < pages[j].seq })

	images := make([]domain.PageImage, len(pages))
	for i, p := range pages {
		images[i] = domain.PageImage{Index: i, Path: p.path, MediaType: p.mt}
	}
	return images, nil
}

// extensions maps each allowed media type to its stored extension.
func (s *Store) extensions() map[string]string {
	out := make(map[string]string, len(s.limits.AllowedTypes))
	for _, mt := range s.limits.AllowedTypes {
		if ext, ok := domain.MediaTypeExtensions[mt]; ok {
			out[mt] = ext
		}
	}
	return out
}
