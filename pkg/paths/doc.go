// Package paths provides path handling for dotman.
//
// It covers three concerns:
//
//   - Expanding home-directory shorthand (~ and $HOME) and joining relative
//     paths onto an explicit base directory, as a pure string transformation
//   - Canonicalizing a path against the filesystem when a caller needs it to
//     exist
//   - XDG Base Directory locations for the default manifest and the log file
//
// # Environment Variables
//
//   - HOME: required whenever a path uses ~ or $HOME
//   - XDG_CONFIG_HOME: default manifest lives at $XDG_CONFIG_HOME/dotman/Manifest.toml
//   - XDG_STATE_HOME: log file lives at $XDG_STATE_HOME/dotman/dotman.log
//
// # Usage
//
//	r := paths.NewResolver("/home/user/dotfiles")
//	dest, err := r.Resolve("~/.config/kitty")    // /home/user/.config/kitty
//	src, err := r.Resolve("./kitty/kitty.conf")  // /home/user/dotfiles/kitty/kitty.conf
//	canon, err := paths.Canonicalize(fs, src)    // symlinks resolved, NOT_FOUND if missing
package paths
