package types

import (
	"strings"

	"github.com/arthur-debert/dotman/pkg/errors"
)

// Entry is one declared file or directory to place
type Entry struct {
	// Name is the unique key of the entry in the manifest
	Name string `json:"name"`

	// Source is the file or directory in the repository, as written in the manifest
	Source string `json:"source"`

	// Destination is where the link goes, or an existing directory that
	// receives a link named after the source
	Destination string `json:"destination"`

	// Template, when set, is rendered into Source before linking
	Template string `json:"template,omitempty"`

	// Ignore holds doublestar globs, relative to Source, skipped during
	// directory expansion
	Ignore []string `json:"ignore,omitempty"`
}

// HasTemplate reports whether the entry renders a template
func (e Entry) HasTemplate() bool {
	return e.Template != ""
}

// clone returns e with its own Ignore slice
func (e Entry) clone() Entry {
	if e.Ignore != nil {
		e.Ignore = append([]string(nil), e.Ignore...)
	}
	return e
}

// Theme names the palette variant. It is passed to the palette provider
// as is; the provider decides which themes it supports.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"

	// DefaultTheme is used when the manifest declares none
	DefaultTheme = ThemeDark
)

// ParseTheme trims a theme name. Empty means DefaultTheme.
func ParseTheme(s string) Theme {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTheme
	}
	return Theme(s)
}

// DeclaredSet is the ordered, immutable set of entries loaded from a manifest
type DeclaredSet struct {
	entries   []Entry
	index     map[string]int
	wallpaper string
	theme     Theme
	baseDir   string
	ignore    []string
}

// DeclaredSetOptions carries the manifest-level settings of a DeclaredSet
type DeclaredSetOptions struct {
	// BaseDir is the directory relative paths resolve against
	BaseDir   string
	Wallpaper string
	Theme     Theme
	// Ignore applies to every entry
	Ignore []string
}

// NewDeclaredSet builds a DeclaredSet preserving the order of entries.
// Duplicate or empty names are rejected.
func NewDeclaredSet(opts DeclaredSetOptions, entries []Entry) (*DeclaredSet, error) {
	theme := opts.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	ds := &DeclaredSet{
		entries:   make([]Entry, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
		wallpaper: opts.Wallpaper,
		theme:     theme,
		baseDir:   opts.BaseDir,
		ignore:    append([]string(nil), opts.Ignore...),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New(errors.ErrManifestInvalid, "entry with empty name")
		}
		if _, dup := ds.index[e.Name]; dup {
			return nil, errors.Newf(errors.ErrManifestInvalid, "duplicate entry %q", e.Name).
				WithDetail("entry", e.Name)
		}
		ds.index[e.Name] = len(ds.entries)
		ds.entries = append(ds.entries, e.clone())
	}

	return ds, nil
}

// Len returns the number of entries
func (d *DeclaredSet) Len() int {
	return len(d.entries)
}

// Names returns entry names in declaration order
func (d *DeclaredSet) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries in declaration order
func (d *DeclaredSet) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.clone()
	}
	return out
}

// Get looks an entry up by name
func (d *DeclaredSet) Get(name string) (Entry, bool) {
	i, ok := d.index[name]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i].clone(), true
}

func (d *DeclaredSet) Wallpaper() string { return d.wallpaper }
func (d *DeclaredSet) Theme() Theme      { return d.theme }
func (d *DeclaredSet) BaseDir() string   { return d.baseDir }

// Ignore returns the global ignore patterns
func (d *DeclaredSet) Ignore() []string {
	return append([]string(nil), d.ignore...)
}

// VariableMapping maps template variable names to values. It is built once
// per run and must not be modified afterwards.
type VariableMapping map[string]string

// Well-known variables present in every mapping next to the palette roles
const (
	VarWallpaper = "wallpaper"
	VarTheme     = "theme"
)
