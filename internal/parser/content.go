package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atikulmunna/logdash/internal/model"
)

// LineError is a parse failure tagged with its 1-based line number.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// ParseContent parses every line of content. Lines that fail are logged,
// collected and skipped; they never abort the batch.
func ParseContent(p Parser, content string, logFileID int64) ([]model.LogEntry, []error) {
	var (
		entries []model.LogEntry
		skipped []error
	)
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		entry, err := p.Parse(line, logFileID)
		if err != nil {
			lerr := &LineError{Line: i + 1, Err: err}
			slog.Debug("skipping log line", "line", lerr.Line, "error", err)
			skipped = append(skipped, lerr)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}
