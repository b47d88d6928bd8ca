package compile

import "fmt"

// Supported engines.
const (
	EngineTectonic = "tectonic"
	EnginePDFLaTeX = "pdflatex"
	EngineXeLaTeX  = "xelatex"
	EngineLuaLaTeX = "lualatex"
	EngineLatexmk  = "latexmk"
)

const (
	sourceName = "document.tex"
	outputName = "document.pdf"
)

// engineArgs returns the batch-mode arguments that compile sourceName into outputName inside workspace.
func engineArgs(engine, workspace string) ([]string, error) {
	switch engine {
	case EngineTectonic:
		return []string{"--outdir", workspace, "--chatter", "minimal", sourceName}, nil
	case EnginePDFLaTeX, EngineXeLaTeX, EngineLuaLaTeX:
		return []string{"-interaction=nonstopmode", "-halt-on-error", "-output-directory", workspace, sourceName}, nil
	case EngineLatexmk:
		return []string{"-pdf", "-interaction=nonstopmode", "-halt-on-error", "-outdir=" + workspace, sourceName}, nil
	default:
		return nil, fmt.Errorf("unsupported LaTeX engine %q", engine)
	}
}
