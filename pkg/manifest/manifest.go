// Package manifest loads a dotman manifest into a types.DeclaredSet.
//
// A manifest is TOML (the default, Manifest.toml) or YAML, chosen by file
// extension:
//
//	wallpaper = "~/Pictures/wall.png"
//	theme = "dark"
//	ignore = ["**/.DS_Store"]
//
//	[files.kitty]
//	source = "./kitty/kitty.conf"
//	destination = "~/.config/kitty/kitty.conf"
//	template = "./kitty/kitty.conf.tmpl"
//
// Values are read through koanf (defaults, file, then DOTMAN_* environment
// overrides). Entry order is recovered from the document itself because
// koanf's maps do not keep it.
package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/logging"
	"github.com/arthur-debert/dotman/pkg/paths"
	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "DOTMAN_"

	// EnvManifest names the manifest when no flag is given
	EnvManifest = "DOTMAN_MANIFEST"

	// keyDelim separates koanf key paths. Entry names may contain dots
	// (e.g. "init.lua"), so "." cannot be used.
	keyDelim = "::"
)

// Format is a manifest file format
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// overridable lists the top-level keys the environment may override
var overridable = map[string]bool{
	"wallpaper": true,
	"theme":     true,
}

type rawManifest struct {
	Wallpaper string              `koanf:"wallpaper"`
	Theme     string              `koanf:"theme"`
	Ignore    []string            `koanf:"ignore"`
	Files     map[string]rawEntry `koanf:"files"`
}

type rawEntry struct {
	Source      string   `koanf:"source"`
	Target      string   `koanf:"target"`
	Destination string   `koanf:"destination"`
	Dest        string   `koanf:"dest"`
	Template    string   `koanf:"template"`
	Ignore      []string `koanf:"ignore"`
}

// DetectFormat picks the format from the file extension. Anything that is
// not .yaml or .yml is read as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Locate decides which manifest to load. An explicit path wins, then
// DOTMAN_MANIFEST, then ./Manifest.toml, then the XDG config location. When
// nothing exists the working directory default is returned so the load
// error names it.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(EnvManifest); fromEnv != "" {
		return fromEnv
	}
	if _, err := os.Stat(paths.ManifestFileName); err == nil {
		return paths.ManifestFileName
	}
	if fallback := paths.DefaultManifestPath(); fileExists(fallback) {
		return fallback
	}
	return paths.ManifestFileName
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the manifest at path. Relative paths inside it are kept as
// written; the returned set's BaseDir is the manifest's directory, against
// which they resolve.
func Load(path string) (*types.DeclaredSet, error) {
	logger := logging.GetLogger("manifest")

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "cannot resolve manifest path %s", path)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "cannot read manifest %s", absPath).
			WithDetail("path", absPath)
	}

	format := DetectFormat(absPath)
	logger.Debug().Str("path", absPath).Str("format", string(format)).Msg("Loading manifest")

	order, err := entryOrder(format, data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "cannot parse manifest %s", absPath).
			WithDetail("path", absPath)
	}

	raw, err := decode(absPath, format)
	if err != nil {
		return nil, err
	}

	return build(raw, order, filepath.Dir(absPath))
}

func decode(path string, format Format) (*rawManifest, error) {
	k := koanf.New(keyDelim)

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"theme": string(types.DefaultTheme),
	}, keyDelim), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load manifest defaults")
	}

	var parser koanf.Parser = toml.Parser()
	if format == FormatYAML {
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "cannot parse manifest %s", path).
			WithDetail("path", path)
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, keyDelim, func(key, value string) (string, interface{}) {
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if !overridable[name] || value == "" {
			return "", nil
		}
		return name, value
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestLoad, "failed to load environment overrides")
	}

	var raw rawManifest
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &raw,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &raw, unmarshalConf); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "manifest %s has an unexpected shape", path).
			WithDetail("path", path)
	}

	return &raw, nil
}

func build(raw *rawManifest, order []string, baseDir string) (*types.DeclaredSet, error) {
	theme := types.ParseTheme(raw.Theme)

	if err := validatePatterns("", raw.Ignore); err != nil {
		return nil, err
	}

	names := completeOrder(order, raw.Files)
	entries := make([]types.Entry, 0, len(names))
	for _, name := range names {
		entry, err := toEntry(name, raw.Files[name])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return types.NewDeclaredSet(types.DeclaredSetOptions{
		BaseDir:   baseDir,
		Wallpaper: raw.Wallpaper,
		Theme:     theme,
		Ignore:    raw.Ignore,
	}, entries)
}

// completeOrder appends, sorted, any entry the order scan did not see
func completeOrder(order []string, files map[string]rawEntry) []string {
	seen := make(map[string]bool, len(order))
	names := make([]string, 0, len(files))
	for _, name := range order {
		if _, ok := files[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range files {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func toEntry(name string, raw rawEntry) (types.Entry, error) {
	source := firstNonEmpty(raw.Source, raw.Target)
	destination := firstNonEmpty(raw.Destination, raw.Dest)

	if source == "" {
		return types.Entry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q has no source", name).
			WithDetail("entry", name)
	}
	if destination == "" {
		return types.Entry{}, errors.Newf(errors.ErrManifestInvalid, "entry %q has no destination", name).
			WithDetail("entry", name)
	}
	if err := validatePatterns(name, raw.Ignore); err != nil {
		return types.Entry{}, err
	}

	return types.Entry{
		Name:        name,
		Source:      source,
		Destination: destination,
		Template:    raw.Template,
		Ignore:      raw.Ignore,
	}, nil
}

func validatePatterns(entry string, patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			err := errors.Newf(errors.ErrManifestInvalid, "invalid ignore pattern %q", pattern).
				WithDetail("pattern", pattern)
			if entry != "" {
				err = err.WithDetail("entry", entry)
			}
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
