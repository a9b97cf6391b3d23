// Package palette derives template variables from a wallpaper image.
package palette

import (
	"github.com/arthur-debert/dotman/pkg/types"
)

// Provider turns a wallpaper and a theme into a VariableMapping. The mapping
// always includes the "wallpaper" and "theme" keys next to the color roles.
type Provider interface {
	Derive(wallpaper string, theme types.Theme) (types.VariableMapping, error)
}

// Func adapts a plain function to Provider
type Func func(wallpaper string, theme types.Theme) (types.VariableMapping, error)

// Derive calls f
func (f Func) Derive(wallpaper string, theme types.Theme) (types.VariableMapping, error) {
	return f(wallpaper, theme)
}
