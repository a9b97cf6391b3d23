package styles_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotman/pkg/testutil"
	"github.com/arthur-debert/dotman/pkg/ui/output/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expected := []string{
		"Header", "Entry", "Path", "Muted",
		"Created", "Replaced", "UpToDate", "Cleared", "Conflict", "Failed",
		"Generated", "Info", "Warning", "Error", "DryRunBanner",
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "Style %s should exist in registry", name)
		})
	}
}

func TestLoadStyles(t *testing.T) {
	original := styles.StyleRegistry
	t.Cleanup(func() { styles.StyleRegistry = original })

	path := testutil.CreateFile(t, t.TempDir(), "styles.yaml", `
colors:
  pink:
    light: "#ff00ff"
    dark: "#ff88ff"
styles:
  Created:
    foreground: pink
    bold: true
`)
	require.NoError(t, styles.LoadStyles(path))
	assert.Len(t, styles.StyleRegistry, 1)
	assert.True(t, styles.GetStyle("Created").GetBold())

	assert.Error(t, styles.LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [")))
}

func TestGetStyle_Unknown(t *testing.T) {
	style := styles.GetStyle("NoSuchStyle")
	assert.False(t, style.GetBold())
}
