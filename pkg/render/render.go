// Package render compiles and renders configuration templates.
//
// Templates use Go text/template syntax against a flat VariableMapping:
//
//	background = {{ .background }}
//	{{ if is_equal .theme "dark" }}include dark.conf{{ end }}
//
// Referencing a variable that is not in the mapping is an error, never an
// empty string. Materialize renders fully in memory before writing, so a
// failed render leaves the output path untouched.
package render

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/types"
)

var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]*)"`)

// Funcs are the helpers available to every template
var Funcs = template.FuncMap{
	"is_equal": isEqual,
}

func isEqual(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Renderer turns templates into file content
type Renderer struct {
	fs types.FS
}

// New creates a Renderer that reads templates from and writes output to fsys
func New(fsys types.FS) *Renderer {
	return &Renderer{fs: fsys}
}

// Compiled is a parsed template ready to render
type Compiled struct {
	name string
	tmpl *template.Template
}

// Name returns the template name, usually its path
func (c *Compiled) Name() string {
	return c.name
}

// Compile parses source. Syntax errors are reported as ErrTemplateSyntax
// and carry the template name.
func (r *Renderer) Compile(name, source string) (*Compiled, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(Funcs).
		Parse(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSyntax, "invalid template %s", name).
			WithDetail("template", name)
	}
	return &Compiled{name: name, tmpl: tmpl}, nil
}

// Render executes the template against vars
func (c *Compiled) Render(vars types.VariableMapping) (string, error) {
	var buf bytes.Buffer
	data := map[string]string(vars)
	if data == nil {
		data = map[string]string{}
	}

	if err := c.tmpl.Execute(&buf, data); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return "", errors.Wrapf(err, errors.ErrUndefinedVariable, "undefined variable %q in %s", m[1], c.name).
				WithDetail("template", c.name).
				WithDetail("variable", m[1])
		}
		return "", errors.Wrapf(err, errors.ErrTemplateSyntax, "cannot render %s", c.name).
			WithDetail("template", c.name)
	}
	return buf.String(), nil
}

// Render compiles and renders source in one step
func (r *Renderer) Render(name, source string, vars types.VariableMapping) (string, error) {
	compiled, err := r.Compile(name, source)
	if err != nil {
		return "", err
	}
	return compiled.Render(vars)
}

// Preview renders entry.Template in memory and returns the output with the
// template's permission bits. Nothing is written.
func (r *Renderer) Preview(entry types.Entry, vars types.VariableMapping) (string, fs.FileMode, error) {
	if !entry.HasTemplate() {
		return "", 0, errors.Newf(errors.ErrInvalidInput, "entry %q has no template", entry.Name)
	}

	info, err := r.fs.Stat(entry.Template)
	if err != nil {
		code := errors.ErrFileAccess
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrNotFound
		}
		return "", 0, errors.Wrapf(err, code, "cannot read template %s", entry.Template).
			WithDetail("template", entry.Template)
	}

	source, err := r.fs.ReadFile(entry.Template)
	if err != nil {
		return "", 0, errors.Wrapf(err, errors.ErrFileAccess, "cannot read template %s", entry.Template).
			WithDetail("template", entry.Template)
	}

	rendered, err := r.Render(entry.Template, string(source), vars)
	if err != nil {
		return "", 0, err
	}
	return rendered, info.Mode().Perm(), nil
}

// Materialize renders entry.Template and writes the result to entry.Source,
// creating its parent directory. Both paths must already be resolved. The
// output keeps the template's permission bits.
func (r *Renderer) Materialize(entry types.Entry, vars types.VariableMapping) error {
	logger := logging.GetLogger("render")

	rendered, perm, err := r.Preview(entry, vars)
	if err != nil {
		return err
	}

	outDir := filepath.Dir(entry.Source)
	if err := r.fs.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", outDir).
			WithDetail("path", outDir)
	}

	if err := r.fs.WriteFile(entry.Source, []byte(rendered), perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", entry.Source).
			WithDetail("path", entry.Source)
	}

	logger.Debug().
		Str("entry", entry.Name).
		Str("template", entry.Template).
		Str("output", entry.Source).
		Int("bytes", len(rendered)).
		Msg("Template materialized")
	return nil
}
