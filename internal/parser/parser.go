package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

// ErrParse marks a line that could not be turned into an entry.
var ErrParse = errors.New("parse failure")

// Parser converts one raw log line into a structured LogEntry.
type Parser interface {
	Parse(line string, logFileID int64) (model.LogEntry, error)
}

// ---------------------------------------------------------------------------
// Heuristic Parser
// ---------------------------------------------------------------------------

const levelWords = `CRITICAL|ERROR|WARNING|WARN|INFO|DEBUG`

// levelMatcher extracts a level from a line. The whole match is stripped
// from the message; group holds the level keyword.
type levelMatcher struct {
	name  string
	re    *regexp.Regexp
	group int
}

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`)
	bracketRe   = regexp.MustCompile(`\[([^\]]+)\]`)
)

// HeuristicParser tries level patterns in a fixed order, first match wins,
// then strips an ISO-8601-like timestamp and picks the first remaining
// bracketed token as the source. It never fills FunctionName or LineNumber.
type HeuristicParser struct {
	matchers []levelMatcher
	now      func() time.Time
}

func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{
		matchers: []levelMatcher{
			{name: "keyword", re: regexp.MustCompile(`(?i)\[?\b(` + levelWords + `)\b\]?`), group: 1},
			{name: "colon", re: regexp.MustCompile(`(?i)\b(` + levelWords + `):`), group: 1},
			{name: "timestamp-bracket", re: regexp.MustCompile(`(?i)^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) \[(` + levelWords + `)\]`), group: 2},
		},
		now: time.Now,
	}
}

// WithClock overrides the time source used when a line carries no timestamp.
func (p *HeuristicParser) WithClock(now func() time.Time) *HeuristicParser {
	p.now = now
	return p
}

func (p *HeuristicParser) Parse(line string, logFileID int64) (model.LogEntry, error) {
	line, err := clean(line)
	if err != nil {
		return model.LogEntry{}, err
	}

	entry := base(line, logFileID, p.now())

	message := line
	for _, m := range p.matchers {
		loc := m.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		entry.Level = model.Level(strings.ToUpper(line[loc[2*m.group]:loc[2*m.group+1]]))
		message = strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
		break
	}

	if ts := timestampRe.FindString(line); ts != "" {
		if bracketed := "[" + ts + "]"; strings.Contains(message, bracketed) {
			message = strings.Replace(message, bracketed, "", 1)
		} else {
			message = strings.Replace(message, ts, "", 1)
		}
		message = strings.TrimSpace(message)
		if t, ok := parseTimestamp(ts); ok {
			entry.Timestamp = t
		}
	}

	// Brackets consumed by level extraction are gone from message already.
	if m := bracketRe.FindStringSubmatch(message); m != nil {
		entry.Source = m[1]
	}

	if message != "" {
		entry.Message = message
	}
	return entry, nil
}

// ---------------------------------------------------------------------------
// Regex Parser (user-defined patterns)
// ---------------------------------------------------------------------------

// RegexParser uses a user-supplied regex with named capture groups.
// Recognized groups: timestamp, level, message, source, function, line.
// Lines the pattern does not match fall back to the heuristic parser.
type RegexParser struct {
	re       *regexp.Regexp
	fallback *HeuristicParser
}

func NewRegexParser(pattern string) (*RegexParser, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexParser{re: re, fallback: NewHeuristicParser()}, nil
}

func (p *RegexParser) Parse(line string, logFileID int64) (model.LogEntry, error) {
	line, err := clean(line)
	if err != nil {
		return model.LogEntry{}, err
	}

	matches := p.re.FindStringSubmatch(line)
	if matches == nil {
		return p.fallback.Parse(line, logFileID)
	}

	entry := base(line, logFileID, p.fallback.now())
	for i, name := range p.re.SubexpNames() {
		val := strings.TrimSpace(matches[i])
		if i == 0 || name == "" || val == "" {
			continue
		}

		switch name {
		case "level":
			entry.Level = model.NormalizeLevel(val)
		case "message":
			entry.Message = val
		case "source":
			entry.Source = val
		case "function":
			fn := val
			entry.FunctionName = &fn
		case "line":
			if n, err := strconv.Atoi(val); err == nil {
				entry.LineNumber = &n
			}
		case "timestamp":
			if t, ok := parseTimestamp(val); ok {
				entry.Timestamp = t
			}
		}
	}
	return entry, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// base returns a LogEntry with defaults populated.
func base(line string, logFileID int64, now time.Time) model.LogEntry {
	return model.LogEntry{
		LogFileID: logFileID,
		Timestamp: now,
		Level:     model.LevelInfo,
		Message:   line,
		Source:    model.SourceUnknown,
	}
}

// clean replaces invalid UTF-8 with U+FFFD and rejects lines that cannot
// yield a non-empty message.
func clean(line string) (string, error) {
	line = strings.ToValidUTF8(line, "\uFFFD")
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("%w: blank line", ErrParse)
	}
	return line, nil
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp accepts the forms timestampRe matches, with either a T or a
// space between date and time. Zone-less values are read as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
