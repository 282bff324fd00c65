package model

import (
	"strings"
	"time"
)

// Level is the normalized severity of a log entry.
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelError    Level = "ERROR"
	LevelWarn     Level = "WARN"
	LevelWarning  Level = "WARNING"
	LevelInfo     Level = "INFO"
	LevelDebug    Level = "DEBUG"
	LevelUnknown  Level = "UNKNOWN"
)

// Levels lists every level an entry may carry.
var Levels = []Level{LevelCritical, LevelError, LevelWarn, LevelWarning, LevelInfo, LevelDebug, LevelUnknown}

// NormalizeLevel upper-cases s and maps anything outside Levels to UNKNOWN.
func NormalizeLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l
		}
	}
	return LevelUnknown
}

// LogEntry is one structured unit parsed from a raw log line.
// ID and LogFileID are assigned by the backend; the parser leaves them zero
// unless told the owning file.
type LogEntry struct {
	ID           int64     `json:"id"`
	LogFileID    int64     `json:"log_file_id"`
	Timestamp    time.Time `json:"timestamp"`
	Level        Level     `json:"level"`
	Message      string    `json:"message"`
	Source       string    `json:"source"`
	FunctionName *string   `json:"function_name"`
	LineNumber   *int      `json:"line_number"`
}

// SourceUnknown is the source of an entry whose line carried no bracketed token.
const SourceUnknown = "unknown"

// RawLine is an unparsed line read from a tailed file.
type RawLine struct {
	Text string
	Path string // originating file path
}

// LiveEntry is a parsed line from the live tail, tagged with its file.
type LiveEntry struct {
	LogEntry
	Path string `json:"path"`
}
