package sorting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/atikulmunna/logdash/internal/model"
)

// Field names a sortable LogEntry attribute, spelled as in the entry's JSON.
type Field string

const (
	FieldTimestamp    Field = "timestamp"
	FieldLevel        Field = "level"
	FieldMessage      Field = "message"
	FieldSource       Field = "source"
	FieldFunctionName Field = "function_name"
	FieldLineNumber   Field = "line_number"
	FieldID           Field = "id"
	FieldLogFileID    Field = "log_file_id"
)

// Direction is asc or desc.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// State is the active (field, direction) pair.
type State struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// Default is newest first.
var Default = State{Field: FieldTimestamp, Direction: Desc}

var comparators = map[Field]func(a, b model.LogEntry) int{
	FieldTimestamp:    func(a, b model.LogEntry) int { return a.Timestamp.Compare(b.Timestamp) },
	FieldLevel:        func(a, b model.LogEntry) int { return text(string(a.Level), string(b.Level)) },
	FieldMessage:      func(a, b model.LogEntry) int { return text(a.Message, b.Message) },
	FieldSource:       func(a, b model.LogEntry) int { return text(a.Source, b.Source) },
	FieldFunctionName: func(a, b model.LogEntry) int { return optional(a.FunctionName, b.FunctionName, text) },
	FieldLineNumber:   func(a, b model.LogEntry) int { return optional(a.LineNumber, b.LineNumber, cmp.Compare[int]) },
	FieldID:           func(a, b model.LogEntry) int { return cmp.Compare(a.ID, b.ID) },
	FieldLogFileID:    func(a, b model.LogEntry) int { return cmp.Compare(a.LogFileID, b.LogFileID) },
}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := comparators[f]; !ok {
		return "", fmt.Errorf("unknown sort field %q", s)
	}
	return f, nil
}

// ParseDirection validates a direction; empty means asc.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc, "":
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Toggle returns the state after the operator picks field: the same field
// flips direction, a new field starts ascending.
func (s State) Toggle(field Field) State {
	if s.Field == field {
		if s.Direction == Asc {
			return State{Field: field, Direction: Desc}
		}
		return State{Field: field, Direction: Asc}
	}
	return State{Field: field, Direction: Asc}
}

// Sort returns a sorted copy of entries. Ties keep their input order.
// Unknown fields leave the order unchanged.
func Sort(entries []model.LogEntry, s State) []model.LogEntry {
	out := slices.Clone(entries)
	compare, ok := comparators[s.Field]
	if !ok {
		return out
	}
	if s.Direction == Desc {
		slices.SortStableFunc(out, func(a, b model.LogEntry) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func text(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// optional orders unset values before set ones.
func optional[T any](a, b *T, compare func(x, y T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compare(*a, *b)
}
