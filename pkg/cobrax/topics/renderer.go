package topics

import (
	"os"

	"github.com/charmbracelet/glamour"
)

// Renderer turns raw topic content into terminal output. ext is the topic
// file's extension, including the dot.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as written
type PlainRenderer struct{}

// Render returns content unchanged
func (PlainRenderer) Render(content string, ext string) string {
	return content
}

// GlamourRenderer renders markdown topics with glamour. Other extensions pass
// through untouched, as does anything glamour fails on.
type GlamourRenderer struct {
	// Style is a glamour standard style ("dark", "light", "notty") or a path
	// to a style file; empty or "auto" follows the terminal
	Style string
	// Width wraps output; 0 keeps glamour's default
	Width int
}

// NewGlamourRenderer creates a markdown renderer. NO_COLOR selects the
// notty style.
func NewGlamourRenderer() *GlamourRenderer {
	r := &GlamourRenderer{Style: "auto"}
	if os.Getenv("NO_COLOR") != "" {
		r.Style = "notty"
	}
	return r
}

// Render renders markdown content
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	if r.Style == "" || r.Style == "auto" {
		options = append(options, glamour.WithAutoStyle())
	} else {
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	tr, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
