package status

// Message constants
const (
	MsgShort = "Show the state of every destination"
	MsgLong  = `The 'status' command classifies every destination the way 'link' would,
without changing anything: missing links would be created, up-to-date links
are reported as such, and files in the way show up as conflicts.`

	MsgExample = `  # Everything
  dotman status

  # One entry, as JSON
  dotman status nvim --format json`

	MsgFlagForce = "Classify as if --force were given"
)
