package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

// Format selects the serialization.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Header is the fixed CSV header row.
var Header = []string{"Timestamp", "Level", "Message", "Source", "Function", "Line"}

// ParseFormat validates a format name; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case CSV, "":
		return CSV, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Filename is the download name for an export of the filtered view or,
// when selected is set, of the operator's selection.
func Filename(f Format, selected bool) string {
	name := "log_entries." + string(f)
	if selected {
		return "selected_" + name
	}
	return name
}

// ContentType is the MIME type served with an export.
func ContentType(f Format) string {
	if f == JSON {
		return "application/json; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Render serializes entries. It never reorders or filters them.
func Render(entries []model.LogEntry, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, entries, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes entries to w.
func Write(w io.Writer, entries []model.LogEntry, f Format) error {
	switch f {
	case CSV:
		return writeCSV(w, entries)
	case JSON:
		return writeJSON(w, entries)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// writeCSV emits one header row and one row per entry, newline separated.
// The message column is always quoted with inner quotes doubled; other
// columns are quoted only when they would otherwise break the row.
func writeCSV(w io.Writer, entries []model.LogEntry) error {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))

	for _, e := range entries {
		var fn, line string
		if e.FunctionName != nil {
			fn = *e.FunctionName
		}
		if e.LineNumber != nil {
			line = strconv.Itoa(*e.LineNumber)
		}

		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			field(e.Timestamp.Format(time.RFC3339Nano)),
			field(string(e.Level)),
			quote(e.Message),
			field(e.Source),
			field(fn),
			field(line),
		}, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, entries []model.LogEntry) error {
	if entries == nil {
		entries = []model.LogEntry{}
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	_, err = w.Write(raw)
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func field(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
