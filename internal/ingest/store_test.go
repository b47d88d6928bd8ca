package ingest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/domain"
)

var testLimits = Limits{
	MaxFileSize:  1024,
	MaxFiles:     3,
	AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
}

func pngFile(body string) File {
	return File{Name: "page.png", MediaType: "image/png", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestSave_SingleFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, testLimits)

	up, err := s.Save([]File{pngFile("png-bytes")}, false)
	require.NoError(t, err)

	assert.False(t, up.MultiPage)
	require.Equal(t, []string{up.ID.String() + ".png"}, up.Filenames)

	data, err := os.ReadFile(filepath.Join(dir, up.Filenames[0]))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSave_MultipleFilesForceMultiPage(t *testing.T) {
	s := NewStore(t.TempDir(), testLimits)

	files := []File{
		pngFile("one"),
		{Name: "b.jpg", MediaType: "image/jpeg", Size: 3, Body: strings.NewReader("two")},
	}
	up, err := s.Save(files, false)
	require.NoError(t, err)

	assert.True(t, up.MultiPage)
	assert.Equal(t, []string{
		up.ID.String() + "-000.png",
		up.ID.String() + "-001.jpg",
	}, up.Filenames)
}

func TestSave_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		files   []File
		wantMsg string
	}{
		{"no files", nil, "No file provided"},
		{"unsupported type", []File{{MediaType: "application/pdf", Body: strings.NewReader("x")}}, "Unsupported file type"},
		{"declared oversize", []File{{MediaType: "image/png", Size: 2048, Body: strings.NewReader("x")}}, "File too large"},
		{"too many files", []File{pngFile("1"), pngFile("2"), pngFile("3"), pngFile("4")}, "Too many files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := NewStore(dir, testLimits)

			_, err := s.Save(tt.files, false)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries)
		})
	}
}

func TestSave_ActualSizeEnforced(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, testLimits)

	// Declared size is small but the body is larger than the limit.
	body := bytes.Repeat([]byte("a"), 2048)
	_, err := s.Save([]File{{MediaType: "image/png", Size: 1, Body: bytes.NewReader(body)}}, false)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestResolve_Single(t *testing.T) {
	s := NewStore(t.TempDir(), testLimits)

	up, err := s.Save([]File{{MediaType: "image/webp", Size: 1, Body: strings.NewReader("w")}}, false)
	require.NoError(t, err)

	pages, err := s.Resolve(up.ID, false)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "image/webp", pages[0].MediaType)
	assert.Equal(t, 0, pages[0].Index)
}

func TestResolve_MultiOrdered(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, testLimits)
	id := uuid.New()

	// Written out of order, and with an unrelated upload next to them.
	for _, name := range []string{"-002.png", "-000.jpg", "-001.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id.String()+name), []byte(name), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, uuid.NewString()+"-000.png"), nil, 0o644))

	pages, err := s.Resolve(id, true)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, want := range []string{"-000.jpg", "-001.png", "-002.png"} {
		assert.Equal(t, i, pages[i].Index)
		assert.Equal(t, id.String()+want, filepath.Base(pages[i].Path))
	}
	assert.Equal(t, "image/jpeg", pages[0].MediaType)
}

func TestResolve_MultiAcceptsSingleUpload(t *testing.T) {
	s := NewStore(t.TempDir(), testLimits)

	up, err := s.Save([]File{pngFile("x")}, false)
	require.NoError(t, err)

	pages, err := s.Resolve(up.ID, true)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestResolve_NotFound(t *testing.T) {
	s := NewStore(t.TempDir(), testLimits)

	_, err := s.Resolve(uuid.New(), false)
	assert.True(t, domain.IsNotFound(err))

	_, err = s.Resolve(uuid.New(), true)
	assert.True(t, domain.IsNotFound(err))

	missing := NewStore(filepath.Join(t.TempDir(), "absent"), testLimits)
	_, err = missing.Resolve(uuid.New(), true)
	assert.True(t, domain.IsNotFound(err))
}

func TestSave_FailedWriteLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, testLimits)

	broken := io.MultiReader(strings.NewReader("half a page"), iotest.ErrReader(errors.New("connection reset")))
	_, err := s.Save([]File{
		pngFile("page one"),
		{MediaType: "image/png", Size: 20, Body: broken},
	}, true)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeIO, domain.TypeOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
