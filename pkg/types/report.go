package types

// Mode selects which phases of a run execute
type Mode string

const (
	// ModeSyncAll renders templates, then links
	ModeSyncAll Mode = "sync"
	// ModeLinkOnly links without rendering
	ModeLinkOnly Mode = "link"
	// ModeGenerateOnly renders without linking
	ModeGenerateOnly Mode = "generate"
)

// Renders reports whether the mode renders templates
func (m Mode) Renders() bool {
	return m == ModeSyncAll || m == ModeGenerateOnly
}

// Links reports whether the mode places links
func (m Mode) Links() bool {
	return m == ModeSyncAll || m == ModeLinkOnly
}

// EntryResult is everything one entry produced during a run
type EntryResult struct {
	Name string `json:"name"`
	// Generated is the path a template was rendered to
	Generated string        `json:"generated,omitempty"`
	Outcomes  []LinkOutcome `json:"outcomes,omitempty"`
	// Failed is set when a leaf failed and the entry stopped early
	Failed bool `json:"failed,omitempty"`
}

// RunReport is the ordered record of a run
type RunReport struct {
	Mode    Mode          `json:"mode"`
	Force   bool          `json:"force"`
	DryRun  bool          `json:"dryRun"`
	Entries []EntryResult `json:"entries"`
	// PaletteDerived is set when the palette provider was consulted
	PaletteDerived bool `json:"paletteDerived"`
}

// Counts tallies outcomes across all entries
func (r *RunReport) Counts() map[OutcomeKind]int {
	counts := make(map[OutcomeKind]int)
	for _, e := range r.Entries {
		for _, o := range e.Outcomes {
			counts[o.Kind]++
		}
	}
	return counts
}

// FailedEntries lists entries that stopped on a failed leaf, in run order
func (r *RunReport) FailedEntries() []string {
	var failed []string
	for _, e := range r.Entries {
		if e.Failed {
			failed = append(failed, e.Name)
		}
	}
	return failed
}

// Generated counts rendered templates
func (r *RunReport) Generated() int {
	n := 0
	for _, e := range r.Entries {
		if e.Generated != "" {
			n++
		}
	}
	return n
}
