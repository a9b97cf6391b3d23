package link

// Message constants
const (
	MsgShort = "Link entries without rendering templates"
	MsgLong  = `The 'link' command places the links of every entry (or one entry) without
rendering any template. Template outputs must already exist. The palette is
never derived, so no wallpaper is needed.`

	MsgExample = `  # Link everything
  dotman link

  # Link one entry, replacing what is in the way
  dotman link zsh --force`
)
