package sync

// Message constants
const (
	MsgShort = "Render templates, then link every entry"
	MsgLong  = `The 'sync' command brings the home directory in line with the manifest.

For each entry, in the order the manifest declares them:
  - if the entry has a template, it is rendered to the entry's source using
    the palette derived from the wallpaper
  - the source is linked at the destination; directories are expanded and
    every file inside is linked individually

Files that are in the way are reported as conflicts and left alone unless
--force is given. Running sync again changes nothing.`

	MsgExample = `  # Sync everything
  dotman sync

  # Sync a single entry
  dotman sync kitty

  # See what would change
  dotman sync --dry-run

  # Replace whatever is in the way
  dotman sync --force`
)
