package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
	"github.com/atikulmunna/logdash/internal/paginate"
	"github.com/atikulmunna/logdash/internal/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const messageWidth = 72

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		Headers(headers...)
}

// WriteEntries prints one page of entries as a table followed by a footer
// with the visible range. selected marks rows with an asterisk; it may be nil.
func WriteEntries(w io.Writer, win paginate.Window, summary string, selected func(id int64) bool) error {
	if summary != "" {
		if _, err := fmt.Fprintln(w, styleTitle.Render("Filters:")+" "+summary); err != nil {
			return err
		}
	}
	if win.Total == 0 {
		_, err := fmt.Fprintln(w, styleMuted.Render("No log entries found"))
		return err
	}

	t := newTable("", "ID", "TIMESTAMP", "LEVEL", "SOURCE", "MESSAGE", "FUNCTION", "LINE")
	for _, e := range win.Entries {
		mark := ""
		if selected != nil && selected(e.ID) {
			mark = "*"
		}
		t.Row(
			mark,
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Format(time.DateTime),
			LevelTag(e.Level),
			e.Source,
			truncate(e.Message, messageWidth),
			optional(e.FunctionName),
			optionalInt(e.LineNumber),
		)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Footer(win))
	return err
}

// Footer reports the visible range, e.g. "Showing 21 to 40 of 45 entries (page 2)".
func Footer(win paginate.Window) string {
	if win.Total == 0 {
		return "Showing 0 to 0 of 0 entries"
	}
	return fmt.Sprintf("Showing %d to %d of %d entries (page %d)", win.Start+1, win.End, win.Total, win.Page)
}

// WriteStats prints the dashboard counters.
func WriteStats(w io.Writer, s store.Stats) error {
	t := newTable("FILES", "ENTRIES", "CRITICAL", "ERRORS", "WARNINGS", "SOURCES").Row(
		strconv.Itoa(s.TotalFiles),
		strconv.Itoa(s.TotalEntries),
		strconv.Itoa(s.Critical),
		strconv.Itoa(s.Errors),
		strconv.Itoa(s.Warnings),
		strconv.Itoa(s.Categories),
	)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteFiles prints the uploaded log files.
func WriteFiles(w io.Writer, files []model.LogFile) error {
	if len(files) == 0 {
		_, err := fmt.Fprintln(w, styleMuted.Render("No log files uploaded"))
		return err
	}
	t := newTable("ID", "FILENAME", "SIZE", "UPLOADED", "ENTRIES", "ANALYSIS")
	for _, f := range files {
		t.Row(
			strconv.FormatInt(f.ID, 10),
			f.Filename,
			strconv.FormatInt(f.Size, 10),
			f.UploadTime.Format(time.DateTime),
			strconv.Itoa(f.LogCount),
			string(f.AnalysisStatus),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteIncidents prints similarity search hits.
func WriteIncidents(w io.Writer, r model.SearchResult) error {
	if _, err := fmt.Fprintf(w, "%s %q: %d found\n", styleTitle.Render("Search"), r.Query, r.TotalFound); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	t := newTable("INCIDENT", "SEVERITY", "CATEGORY", "SCORE", "SOURCE", "LOG")
	for _, inc := range r.Results {
		t.Row(
			inc.IncidentID,
			inc.Severity,
			inc.Category,
			strconv.FormatFloat(inc.SimilarityScore, 'f', 2, 64),
			inc.SourceFile,
			truncate(inc.LogContent, messageWidth),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optionalInt(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
