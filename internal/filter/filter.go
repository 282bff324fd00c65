package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

const dateLayout = "2006-01-02"

// Criteria is a conjunction of field predicates. Empty fields always pass.
type Criteria struct {
	Level    string `form:"level" json:"level,omitempty"`
	Message  string `form:"message" json:"message,omitempty"`
	Source   string `form:"source" json:"source,omitempty"`
	DateFrom string `form:"date_from" json:"date_from,omitempty"` // inclusive, YYYY-MM-DD
	DateTo   string `form:"date_to" json:"date_to,omitempty"`     // inclusive, YYYY-MM-DD
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Validate checks that date bounds are calendar dates.
func (c Criteria) Validate() error {
	for _, d := range []string{c.DateFrom, c.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}
	return nil
}

// Apply returns the entries matching every set predicate, in input order.
// The input slice is not modified.
func Apply(entries []model.LogEntry, c Criteria) []model.LogEntry {
	needle := strings.ToLower(c.Message)

	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if c.Level != "" && string(e.Level) != c.Level {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Message), needle) {
			continue
		}
		if c.Source != "" && e.Source != c.Source {
			continue
		}
		if c.DateFrom != "" || c.DateTo != "" {
			// Date-only: the time of day is dropped in the entry's own zone.
			day := e.Timestamp.Format(dateLayout)
			if c.DateFrom != "" && day < c.DateFrom {
				continue
			}
			if c.DateTo != "" && day > c.DateTo {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// Summary renders the active predicates for display, e.g.
// `Level: ERROR, Message: "disk", Date: 2024-01-01 to any`.
func (c Criteria) Summary() string {
	var parts []string
	if c.Level != "" {
		parts = append(parts, "Level: "+c.Level)
	}
	if c.Message != "" {
		parts = append(parts, fmt.Sprintf("Message: %q", c.Message))
	}
	if c.Source != "" {
		parts = append(parts, "Source: "+c.Source)
	}
	if c.DateFrom != "" || c.DateTo != "" {
		parts = append(parts, fmt.Sprintf("Date: %s to %s", orAny(c.DateFrom), orAny(c.DateTo)))
	}
	return strings.Join(parts, ", ")
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
