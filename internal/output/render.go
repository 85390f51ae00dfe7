package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"tidy/internal/audit"
	"tidy/internal/meta"
	"tidy/internal/organizer"
	"tidy/internal/search"
)

const (
	searchListLimit  = 20
	moveListLimit    = 10
	previewExamples  = 3
	runTimestampForm = "2006-01-02 15:04:05"
)

// table prints rows under a header with left-aligned, padded columns.
// Widths are display widths measured before colouring, so wide runes and
// escape codes never skew them.
func (o *Output) table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	pad := func(s string, i int) string {
		if i >= len(widths)-1 {
			return s
		}
		return runewidth.FillRight(s, widths[i]+2)
	}

	var line strings.Builder
	for i, h := range header {
		line.WriteString(o.palette.heading.Sprint(pad(h, i)))
	}
	o.Info("%s", line.String())

	for _, row := range rows {
		line.Reset()
		for i, cell := range row {
			if i == 0 {
				line.WriteString(o.palette.label.Sprint(pad(cell, i)))
			} else {
				line.WriteString(pad(cell, i))
			}
		}
		o.Info("%s", line.String())
	}
}

// Result prints the outcome of a move, delete or organize call.
func (o *Output) Result(r organizer.OperationResult, failureHeading string) {
	if r.Success {
		o.Success("✅ %s", r.Message)
		return
	}
	o.Error("%s", failureHeading)
	if r.Message != "" && failureHeading != r.Message {
		o.Error("%s", r.Message)
	}
	for _, e := range r.Errors {
		o.Error("  • %s", e)
	}
}

// Preview prints the organization plan as a table of categories sorted by
// name, each with up to three example files.
func (o *Output) Preview(p organizer.Preview) {
	if len(p) == 0 {
		o.Warn("No files to organize (all files are already categorized or unknown types)")
		return
	}

	groups := make([]organizer.Group, len(p))
	copy(groups, p)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		examples := g.Files
		if len(examples) > previewExamples {
			examples = examples[:previewExamples]
		}
		cell := strings.Join(examples, ", ")
		if extra := len(g.Files) - len(examples); extra > 0 {
			cell += fmt.Sprintf(" (+%d more)", extra)
		}
		rows = append(rows, []string{g.Category, fmt.Sprintf("%d", len(g.Files)), cell})
	}

	o.Info("%s", o.palette.heading.Sprint("Organization Preview"))
	o.table([]string{"Category", "Files", "Examples"}, rows)
	o.Info("")
	o.Info("Total: %d files across %d categories", p.Total(), len(p))
}

// FolderMeta prints the folder summary shown by "tidy info".
func (o *Output) FolderMeta(m *meta.FolderMeta) {
	o.Info("%s", o.palette.heading.Sprint("Folder Information"))
	o.table([]string{"Property", "Value"}, [][]string{
		{"Path", m.Path},
		{"Size", m.SizeFormatted},
		{"Files", fmt.Sprintf("%d", m.FileCount)},
		{"Subfolders", fmt.Sprintf("%d", m.FolderCount)},
		{"Created", m.CreationTime},
	})
}

// SearchResults prints the first twenty matches for term.
func (o *Output) SearchResults(term string, results []search.Result) {
	if len(results) == 0 {
		o.Warn("No files found matching '%s'", term)
		return
	}
	o.Success("Found %d file(s) matching '%s'", len(results), term)
	o.fileTable(results, searchListLimit)
}

// LargestFiles prints the given files, largest first.
func (o *Output) LargestFiles(results []search.Result) {
	if len(results) == 0 {
		o.Warn("No files found")
		return
	}
	o.fileTable(results, len(results))
}

func (o *Output) fileTable(results []search.Result, limit int) {
	shown := results
	if len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{r.Name, r.SizeFormatted, shortTimestamp(r.Modified)})
	}
	o.table([]string{"Name", "Size", "Modified"}, rows)
	if extra := len(results) - len(shown); extra > 0 {
		o.Info("... and %d more files", extra)
	}
}

// shortTimestamp trims a ctime-style timestamp to "Jan  2 15:04".
func shortTimestamp(ts string) string {
	if len(ts) < 16 {
		return ts
	}
	return ts[4:16]
}

// FileList prints the files a move or delete is about to touch, under
// heading when it is not empty.
func (o *Output) FileList(heading string, files []string) {
	if heading != "" {
		o.Info("%s", o.palette.heading.Sprint(heading))
	}
	shown := files
	if len(shown) > moveListLimit {
		shown = shown[:moveListLimit]
	}
	for _, f := range shown {
		o.Info("  • %s", f)
	}
	if extra := len(files) - len(shown); extra > 0 {
		o.Info("  ... and %d more", extra)
	}
}

// Runs prints journal runs, newest first.
func (o *Output) Runs(runs []audit.RunInfo) {
	if len(runs) == 0 {
		o.Warn("No operations recorded")
		return
	}
	rows := make([][]string, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		rows = append(rows, []string{
			string(r.RunID),
			r.StartTime.Local().Format(runTimestampForm),
			string(r.RunType),
			string(r.Status),
			runChanges(r),
			r.Directory,
		})
	}
	o.table([]string{"Run", "Started", "Type", "Status", "Changes", "Folder"}, rows)
}

func runChanges(r audit.RunInfo) string {
	var parts []string
	s := r.Summary
	if s.Moved > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", s.Moved))
	}
	if s.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", s.Deleted))
	}
	if s.Restored > 0 {
		parts = append(parts, fmt.Sprintf("%d restored", s.Restored))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// UndoPreview prints what undoing a run would do.
func (o *Output) UndoPreview(p *audit.UndoPreview) {
	o.Info("%s", o.palette.heading.Sprintf("Undo preview for run %s", p.TargetRunID))
	for _, item := range p.Items {
		switch {
		case item.WillRestore:
			o.Info("  ↩ %s → %s", item.DestPath, item.SourcePath)
		case item.EventType == audit.EventDelete:
			o.Warn("  ✗ %s (deleted, cannot be restored)", item.SourcePath)
		default:
			o.Warn("  ✗ %s (%s)", item.SourcePath, item.Reason)
		}
	}
	o.Info("")
	o.Info("%d of %d change(s) can be restored", p.Restorable, len(p.Items))
}

// UndoResult prints the outcome of an undo.
func (o *Output) UndoResult(r *audit.UndoResult) {
	summary := fmt.Sprintf("Undid run %s: %d restored, %d skipped, %d failed",
		r.TargetRunID, r.Restored, r.Skipped, r.Failed)
	if r.Failed == 0 {
		o.Success("✅ %s", summary)
		return
	}
	o.Warn("%s", summary)
	for _, f := range r.Failures {
		o.Error("  • %s: %s", f.SourcePath, f.Message)
	}
}

// Settings prints configuration values as a two-column table.
func (o *Output) Settings(path string, settings [][2]string) {
	o.Info("Config file: %s", path)
	o.Info("")
	rows := make([][]string, 0, len(settings))
	for _, s := range settings {
		rows = append(rows, []string{s[0], s[1]})
	}
	o.table([]string{"Setting", "Value"}, rows)
}
