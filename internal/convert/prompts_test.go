package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noteforge/noteforge/internal/domain"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		role        domain.PageRole
		contains    []string
		notContains []string
	}{
		{domain.RoleSingle, []string{`\documentclass`, `\begin{document}`, `\end{document}`}, nil},
		{domain.RoleFirst, []string{`\documentclass`, `\begin{document}`, `Do not include \end{document}`}, nil},
		{domain.RoleMiddle, []string{"Do not include a preamble"}, []string{"Must start with"}},
		{domain.RoleLast, []string{`End with \end{document}`}, []string{"Must start with"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			p := Prompt(tt.role)
			for _, s := range tt.contains {
				assert.Contains(t, p, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, p, s)
			}
			assert.Contains(t, p, "raw LaTeX")
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "\\section{A}\n", "\\section{A}\n"},
		{"latex fence", "```latex\n\\section{A}\n```", "\\section{A}\n"},
		{"bare fence with padding", "  ```\nx = 1\n```\n\n", "x = 1\n"},
		{"unterminated fence", "```latex\n\\section{A}\n", "\\section{A}\n"},
		{"interior fence kept", "a\n```\nb\n```\nc", "a\n```\nb\n```\nc"},
		{"fence only", "```", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}
