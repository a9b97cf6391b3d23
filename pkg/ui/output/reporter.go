package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/dotman/pkg/types"
	"github.com/arthur-debert/dotman/pkg/ui"
	"github.com/arthur-debert/dotman/pkg/ui/output/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// markers prefix each outcome line
var markers = map[types.OutcomeKind]string{
	types.OutcomeCreated:                  "+",
	types.OutcomeReplaced:                 "~",
	types.OutcomeSkippedUpToDate:          "=",
	types.OutcomeSkippedBrokenLinkCleared: "*",
	types.OutcomeConflict:                 "!",
	types.OutcomeFailed:                   "x",
}

// styleNames maps outcomes to registry styles
var styleNames = map[types.OutcomeKind]string{
	types.OutcomeCreated:                  "Created",
	types.OutcomeReplaced:                 "Replaced",
	types.OutcomeSkippedUpToDate:          "UpToDate",
	types.OutcomeSkippedBrokenLinkCleared: "Cleared",
	types.OutcomeConflict:                 "Conflict",
	types.OutcomeFailed:                   "Failed",
}

// summaryOrder fixes the row order of the summary
var summaryOrder = []types.OutcomeKind{
	types.OutcomeCreated,
	types.OutcomeReplaced,
	types.OutcomeSkippedBrokenLinkCleared,
	types.OutcomeSkippedUpToDate,
	types.OutcomeConflict,
	types.OutcomeFailed,
}

// Reporter writes run progress to w
type Reporter struct {
	w        io.Writer
	format   ui.Format
	dryRun   bool
	renderer *lipgloss.Renderer
	banner   bool
}

// NewReporter creates a Reporter. format must already be resolved (not
// FormatAuto); FormatAuto is treated as text.
func NewReporter(w io.Writer, format ui.Format, dryRun bool) *Reporter {
	if format == ui.FormatAuto {
		format = ui.FormatText
	}
	return &Reporter{
		w:        w,
		format:   format,
		dryRun:   dryRun,
		renderer: lipgloss.NewRenderer(w),
	}
}

// Format returns the format the reporter writes
func (r *Reporter) Format() ui.Format {
	return r.format
}

func (r *Reporter) style(name, text string) string {
	if r.format != ui.FormatTerminal {
		return text
	}
	return styles.GetStyle(name).Renderer(r.renderer).Render(text)
}

func (r *Reporter) println(line string) {
	_, _ = fmt.Fprintln(r.w, line)
}

func (r *Reporter) streaming() bool {
	return r.format != ui.FormatJSON
}

func (r *Reporter) dryRunBanner() {
	if r.dryRun && !r.banner {
		r.banner = true
		r.println(r.style("DryRunBanner", "DRY RUN: nothing will be changed"))
	}
}

// EntryStarted prints the entry heading
func (r *Reporter) EntryStarted(entry types.Entry) {
	if !r.streaming() {
		return
	}
	r.dryRunBanner()
	r.println(r.style("Entry", entry.Name))
}

// Generated prints a rendered template
func (r *Reporter) Generated(entry, path string) {
	if !r.streaming() {
		return
	}
	verb := "rendered"
	if r.dryRun {
		verb = "would render"
	}
	r.println("  " + r.style("Generated", "#") + " " + verb + " " + r.style("Path", path))
}

// Outcome prints one placed leaf
func (r *Reporter) Outcome(entry string, outcome types.LinkOutcome) {
	if !r.streaming() {
		return
	}
	marker := markers[outcome.Kind]
	if marker == "" {
		marker = "?"
	}
	r.println("  " + r.style(styleNames[outcome.Kind], marker) + " " + outcome.Message())
}

// Notice prints a message not tied to a leaf
func (r *Reporter) Notice(level types.Level, message string) {
	if !r.streaming() {
		return
	}
	r.dryRunBanner()
	switch level {
	case types.LevelWarning:
		r.println(r.style("Warning", "warning: ") + message)
	case types.LevelError:
		r.println(r.style("Error", "error: ") + message)
	default:
		r.println(r.style("Muted", message))
	}
}

// Summary prints the totals of a finished (or aborted) run. In json format
// it writes the whole report instead.
func (r *Reporter) Summary(report *types.RunReport) error {
	if report == nil {
		return nil
	}
	if r.format == ui.FormatJSON {
		return writeJSON(r.w, report)
	}

	counts := report.Counts()
	rows := [][]string{{"outcome", "count"}}
	for _, kind := range summaryOrder {
		if counts[kind] > 0 {
			rows = append(rows, []string{string(kind), fmt.Sprint(counts[kind])})
		}
	}
	if n := report.Generated(); n > 0 {
		rows = append(rows, []string{"generated", fmt.Sprint(n)})
	}

	if len(rows) == 1 {
		r.println(r.style("Muted", "nothing to do"))
		return nil
	}

	if r.format == ui.FormatTerminal {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
		if err != nil {
			return err
		}
		r.println("")
		r.println(table)
		return nil
	}

	parts := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		parts = append(parts, row[1]+" "+row[0])
	}
	r.println("summary: " + strings.Join(parts, ", "))
	return nil
}

// EntryList is the json shape of the list command
type EntryList struct {
	Manifest  string        `json:"manifest"`
	Wallpaper string        `json:"wallpaper,omitempty"`
	Theme     types.Theme   `json:"theme"`
	Entries   []types.Entry `json:"entries"`
}

// List prints the declared entries in order
func (r *Reporter) List(manifest string, declared *types.DeclaredSet) error {
	if r.format == ui.FormatJSON {
		return writeJSON(r.w, EntryList{
			Manifest:  manifest,
			Wallpaper: declared.Wallpaper(),
			Theme:     declared.Theme(),
			Entries:   declared.Entries(),
		})
	}

	r.println(r.style("Header", manifest))
	if declared.Len() == 0 {
		r.println(r.style("Muted", "no entries declared"))
		return nil
	}

	width := 0
	for _, name := range declared.Names() {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, entry := range declared.Entries() {
		line := fmt.Sprintf("  %-*s  %s -> %s", width, entry.Name, entry.Source, entry.Destination)
		if entry.HasTemplate() {
			line += r.style("Muted", " (template "+entry.Template+")")
		}
		r.println(line)
	}
	return nil
}

// Variables prints a variable mapping sorted by name
func (r *Reporter) Variables(vars types.VariableMapping) error {
	if r.format == ui.FormatJSON {
		return writeJSON(r.w, vars)
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.println(fmt.Sprintf("%s = %s", r.style("Entry", name), vars[name]))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Error prints err as a single styled line
func Error(w io.Writer, err error, format ui.Format) {
	prefix := "Error:"
	if format == ui.FormatTerminal {
		prefix = styles.GetStyle("Error").Renderer(lipgloss.NewRenderer(w)).Render(prefix)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", prefix, strings.ReplaceAll(err.Error(), "\n", " "))
}
