package cli

// Message constants shared by the root command and its subcommands
const (
	MsgRootShort = "Link dotfiles into place and render themed templates"
	MsgRootLong  = `dotman places configuration files from a version-controlled repository into
your home directory as symbolic links. Entries are declared in a manifest
(Manifest.toml or Manifest.yaml). Entries with a template are rendered first,
using colors derived from your wallpaper, and the output is what gets linked.

Existing files are never overwritten unless --force is given.`

	MsgFlagManifest = "Path to the manifest (default ./Manifest.toml, then $XDG_CONFIG_HOME/dotman/Manifest.toml; env DOTMAN_MANIFEST)"
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagNoColor  = "Disable colored output"
	MsgFlagForce    = "Replace conflicting files and links at the destination"
	MsgFlagDryRun   = "Show what would change without touching the filesystem"

	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"

	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `Generate a completion script for bash, zsh, fish or powershell.

  # bash
  source <(dotman completion bash)

  # zsh
  dotman completion zsh > "${fpath[1]}/_dotman"`

	MsgManShort = "Generate the dotman man page"

	MsgErrNoCommand = "no command specified"
)
