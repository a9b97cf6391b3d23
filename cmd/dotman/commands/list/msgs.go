package list

// Message constants
const (
	MsgShort = "List declared entries"
	MsgLong  = "List prints the manifest's entries in the order they are declared, with their source, destination and template."
)
