package handlers

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectFiles_Order(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{"numbered past nine", []string{"file_10", "file_2", "file_0", "file_1", "file_11"}, []string{"file_0", "file_1", "file_2", "file_10", "file_11"}},
		{"mixed prefixes", []string{"page3", "file_1", "page10"}, []string{"file_1", "page3", "page10"}},
		{"unnumbered", []string{"scan", "file", "image"}, []string{"file", "image", "scan"}},
		{"leading zeros", []string{"file_010", "file_009"}, []string{"file_009", "file_010"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := &multipart.Form{File: map[string][]*multipart.FileHeader{}}
			for _, f := range tt.fields {
				form.File[f] = []*multipart.FileHeader{{Filename: f}}
			}

			var got []string
			for _, fh := range collectFiles(form) {
				got = append(got, fh.Filename)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectFiles_KeepsOrderWithinField(t *testing.T) {
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"file": {{Filename: "a"}, {Filename: "b"}, {Filename: "c"}},
	}}

	var got []string
	for _, fh := range collectFiles(form) {
		got = append(got, fh.Filename)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
