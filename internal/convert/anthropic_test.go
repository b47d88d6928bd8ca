package convert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/domain"
)

// writePage writes a tiny fake PNG and returns it as a page image.
func writePage(t *testing.T, mediaType string) domain.PageImage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))
	return domain.PageImage{Index: 0, Path: path, MediaType: mediaType}
}

func TestAnthropicClient_Convert(t *testing.T) {
	var got anthropicRequest
	var headers http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"` +
			"```latex\\n\\\\documentclass{article}\\n```" + `"}]}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient(AnthropicOptions{APIKey: "k-test", URL: srv.URL})
	text, err := client.Convert(context.Background(), writePage(t, "image/png"), domain.RoleSingle)
	require.NoError(t, err)

	assert.Equal(t, "\\documentclass{article}\n", text)
	assert.Equal(t, "k-test", headers.Get("x-api-key"))
	assert.Equal(t, defaultAnthropicVersion, headers.Get("anthropic-version"))
	assert.Equal(t, "application/json", headers.Get("content-type"))

	assert.Equal(t, defaultAnthropicModel, got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "text", got.Messages[0].Content[0].Type)
	assert.Equal(t, Prompt(domain.RoleSingle), got.Messages[0].Content[0].Text)
	require.NotNil(t, got.Messages[0].Content[1].Source)
	assert.Equal(t, "base64", got.Messages[0].Content[1].Source.Type)
	assert.Equal(t, "image/png", got.Messages[0].Content[1].Source.MediaType)
	assert.NotEmpty(t, got.Messages[0].Content[1].Source.Data)
}

func TestAnthropicClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"non-2xx", http.StatusTooManyRequests, `{"error":"slow down"}`, "status 429"},
		{"malformed body", http.StatusOK, `not json`, "failed to parse response"},
		{"empty content", http.StatusOK, `{"content":[]}`, "no content in response"},
		{"empty text block", http.StatusOK, `{"content":[{"type":"text","text":""}]}`, "no content in response"},
		{"fence only", http.StatusOK, `{"content":[{"type":"text","text":"` + "```latex\\n```" + `"}]}`, "no content in response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewAnthropicClient(AnthropicOptions{APIKey: "k", URL: srv.URL})
			_, err := client.Convert(context.Background(), writePage(t, "image/png"), domain.RoleMiddle)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeConversion, domain.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAnthropicClient_MissingImage(t *testing.T) {
	client := NewAnthropicClient(AnthropicOptions{APIKey: "k", URL: "http://127.0.0.1:0"})
	_, err := client.Convert(context.Background(), domain.PageImage{Path: filepath.Join(t.TempDir(), "nope.png")}, domain.RoleSingle)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeIO, domain.TypeOf(err))
}
