package palette

// Message constants
const (
	MsgShort = "Print the variables templates receive"
	MsgLong  = `The 'palette' command derives the color palette from the manifest's wallpaper
and theme and prints every variable available to templates, sorted by name.
Nothing is written.`
)
