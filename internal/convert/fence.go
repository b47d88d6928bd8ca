package convert

import (
	"strings"

	"github.com/noteforge/noteforge/internal/domain"
)

// StripFences removes a Markdown code fence wrapped around the whole response.
// Models add one despite being told not to. Interior text is never touched.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}

	// Drop the opening fence line, including any language tag.
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return ""
	}
	body := trimmed[nl+1:]

	if strings.HasSuffix(body, "```") {
		body = strings.TrimSuffix(body, "```")
	}
	return strings.TrimRight(body, " \t\r\n") + "\n"
}

// fragmentFrom strips fences from a model reply and rejects one with nothing left in it.
func fragmentFrom(text string) (string, error) {
	out := StripFences(text)
	if strings.TrimSpace(out) == "" {
		return "", domain.ConversionError("no content in response", nil)
	}
	return out, nil
}
