package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	logger.WithDocument("abc").WithOperation("convert").Info().
		Int("pages", 3).
		Int64("bytes", 4096).
		Strs("origins", []string{"http://a", "http://b"}).
		Msg("done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "noteforge", entry["service"])
	assert.Equal(t, "abc", entry["document_id"])
	assert.Equal(t, "convert", entry["operation"])
	assert.EqualValues(t, 3, entry["pages"])
	assert.EqualValues(t, 4096, entry["bytes"])
	assert.Equal(t, []interface{}{"http://a", "http://b"}, entry["origins"])
	assert.Equal(t, "done", entry["message"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Output: &buf})

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	logger.WithContext(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	assert.Same(t, logger, logger.WithContext(context.Background()))
}
