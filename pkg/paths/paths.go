package paths

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotman/pkg/errors"
	"github.com/arthur-debert/dotman/pkg/types"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvXDGStateHome overrides the XDG state directory
	EnvXDGStateHome = "XDG_STATE_HOME"

	// EnvXDGConfigHome overrides the XDG config directory
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under every XDG base directory
	AppDirName = "dotman"

	// ManifestFileName is the default manifest name
	ManifestFileName = "Manifest.toml"

	// LogFileName is the name of the log file
	LogFileName = "dotman.log"
)

var homeTokens = []string{"${HOME}", "$HOME"}

// Resolver expands home-directory shorthand and anchors relative paths to an
// explicit base directory. It never touches the filesystem.
type Resolver struct {
	baseDir string
	getenv  func(string) (string, bool)
}

// NewResolver creates a Resolver that joins relative paths onto baseDir.
// An empty baseDir leaves relative paths relative to the working directory.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{
		baseDir: baseDir,
		getenv:  os.LookupEnv,
	}
}

// BaseDir returns the directory relative paths are joined onto
func (r *Resolver) BaseDir() string {
	return r.baseDir
}

// Resolve expands a leading ~ and every $HOME token, joins relative results
// onto the base directory, and cleans the path.
func (r *Resolver) Resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := path
	if needsHome(path) {
		home, ok := r.getenv(EnvHome)
		if !ok || home == "" {
			return "", errors.Newf(errors.ErrEnvironment, "cannot expand %q: %s is not set", path, EnvHome).
				WithDetail("path", path)
		}
		expanded = expandHome(path, home)
	}

	if !filepath.IsAbs(expanded) {
		base := r.baseDir
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, errors.ErrEnvironment, "cannot determine working directory")
			}
			base = wd
		}
		expanded = filepath.Join(base, expanded)
	}

	return filepath.Clean(expanded), nil
}

func needsHome(path string) bool {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return true
	}
	for _, token := range homeTokens {
		if strings.Contains(path, token) {
			return true
		}
	}
	return false
}

func expandHome(path, home string) string {
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = home + path[1:]
	}
	for _, token := range homeTokens {
		path = strings.ReplaceAll(path, token, home)
	}
	return path
}

// Canonicalize resolves every symlink in path and verifies it exists.
// A missing path yields ErrNotFound.
func Canonicalize(fsys types.FS, path string) (string, error) {
	canonical, err := fsys.EvalSymlinks(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "path does not exist: %s", path).
				WithDetail("path", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot canonicalize %s", path).
			WithDetail("path", path)
	}
	return canonical, nil
}

// ConfigDir returns dotman's XDG config directory
func ConfigDir() string {
	configHome := os.Getenv(EnvXDGConfigHome)
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, AppDirName)
}

// DefaultManifestPath returns the fallback manifest location used when no
// manifest exists in the working directory
func DefaultManifestPath() string {
	return filepath.Join(ConfigDir(), ManifestFileName)
}

// LogFilePath returns the path to the log file.
// It respects XDG_STATE_HOME if set, otherwise uses the XDG default (~/.local/state/dotman/)
func LogFilePath() string {
	stateHome := os.Getenv(EnvXDGStateHome)
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return LogFileName
	}
	return filepath.Join(stateHome, AppDirName, LogFileName)
}
