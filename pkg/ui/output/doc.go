// Package output turns run progress and results into user-facing output.
//
// A Reporter implements types.Reporter. In term and text formats it streams
// one line per entry, leaf and notice as the run progresses, then prints a
// summary. In json format the stream is silent and the summary is the full
// RunReport encoded as JSON, so stdout stays machine readable.
//
// Terminal styling comes from the semantic registry in styles/, applied
// through a lipgloss renderer bound to the output writer.
package output
