package generate

// Message constants
const (
	MsgShort = "Render templates without linking"
	MsgLong  = `The 'generate' command renders the template of every entry that has one
(or of one entry) and writes the output to the entry's source. Nothing is
linked. A wallpaper must be declared when any selected entry has a template.`

	MsgExample = `  # Re-render after changing the wallpaper
  dotman generate

  # Check a template renders without writing it
  dotman generate kitty --dry-run`
)
