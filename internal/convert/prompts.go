package convert

import "github.com/noteforge/noteforge/internal/domain"

const rawOutputRule = "Do not include ```latex or ``` markers. Return only the raw LaTeX code."

// Prompt returns the instruction sent alongside a page image for the given role.
func Prompt(role domain.PageRole) string {
	switch role {
	case domain.RoleFirst:
		return `Convert this mathematical content to the start of a LaTeX document:
1. Document structure:
   - Must start with \documentclass{article}
   - Include necessary packages (amsmath, amssymb)
   - Include \begin{document}
2. Mathematical content:
   - Format equations properly
   - Preserve spacing and layout
Do not include \end{document}.
` + rawOutputRule

	case domain.RoleMiddle:
		return `Convert this mathematical content to LaTeX:
Format all equations and preserve layout.
Do not include a preamble, \documentclass, \begin{document} or \end{document}.
` + rawOutputRule

	case domain.RoleLast:
		return `Convert this mathematical content to LaTeX:
Format all equations and preserve layout.
Do not include a preamble, \documentclass or \begin{document}.
End with \end{document}.
` + rawOutputRule

	default:
		return `Convert this mathematical content to a complete LaTeX document:
1. Document structure:
   - Must start with \documentclass{article}
   - Include necessary packages (amsmath, amssymb)
   - Must have \begin{document} and \end{document}
2. Mathematical content:
   - Use align* for equations
   - Format all special symbols correctly
   - Preserve spacing and layout
` + rawOutputRule
	}
}
