package types

import "fmt"

// OutcomeKind classifies what happened (or would happen) to one destination
type OutcomeKind string

const (
	OutcomeCreated                  OutcomeKind = "created"
	OutcomeReplaced                 OutcomeKind = "replaced"
	OutcomeSkippedUpToDate          OutcomeKind = "up_to_date"
	OutcomeSkippedBrokenLinkCleared OutcomeKind = "broken_link_cleared"
	OutcomeConflict                 OutcomeKind = "conflict"
	OutcomeFailed                   OutcomeKind = "failed"
)

// Level is the user-facing severity of a message
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Level maps an outcome to the severity it is reported with
func (k OutcomeKind) Level() Level {
	switch k {
	case OutcomeCreated, OutcomeReplaced:
		return LevelInfo
	case OutcomeFailed:
		return LevelError
	default:
		return LevelWarning
	}
}

// Mutates reports whether the outcome implies a filesystem change
func (k OutcomeKind) Mutates() bool {
	switch k {
	case OutcomeCreated, OutcomeReplaced, OutcomeSkippedBrokenLinkCleared:
		return true
	}
	return false
}

// LinkOutcome is the result of placing one leaf
type LinkOutcome struct {
	Kind        OutcomeKind `json:"kind"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	// PreviousTarget is the link target found at Destination, if any
	PreviousTarget string `json:"previousTarget,omitempty"`
	// Reason explains a Failed outcome
	Reason string `json:"reason,omitempty"`
	DryRun bool   `json:"dryRun,omitempty"`
	Err    error  `json:"-"`
}

// Message renders the outcome as a one-line sentence
func (o LinkOutcome) Message() string {
	would := ""
	if o.DryRun {
		would = "would be "
	}
	switch o.Kind {
	case OutcomeCreated:
		return fmt.Sprintf("%s %screated -> %s", o.Destination, would, o.Source)
	case OutcomeReplaced:
		return fmt.Sprintf("%s %sreplaced -> %s", o.Destination, would, o.Source)
	case OutcomeSkippedUpToDate:
		return fmt.Sprintf("%s already links to %s", o.Destination, o.Source)
	case OutcomeSkippedBrokenLinkCleared:
		return fmt.Sprintf("%s was a broken link to %s, %srelinked -> %s", o.Destination, o.PreviousTarget, would, o.Source)
	case OutcomeConflict:
		if o.PreviousTarget != "" {
			return fmt.Sprintf("%s links to %s, not %s; resolve manually or use --force", o.Destination, o.PreviousTarget, o.Source)
		}
		return fmt.Sprintf("%s exists and is not a link; resolve manually or use --force", o.Destination)
	case OutcomeFailed:
		return fmt.Sprintf("%s failed: %s", o.Destination, o.Reason)
	}
	return o.Destination
}
