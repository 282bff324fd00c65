package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/atikulmunna/logdash/internal/model"
)

// ---------------------------------------------------------------------------
// JSON Parser (structured log lines)
// ---------------------------------------------------------------------------

// JSONParser handles one-object-per-line structured logs such as slog or
// zap output. Recognized keys: level/severity, message/msg,
// timestamp/time/ts, source/logger/component, function/func, line.
type JSONParser struct {
	fallback *HeuristicParser
}

func NewJSONParser() *JSONParser { return &JSONParser{fallback: NewHeuristicParser()} }

func (p *JSONParser) Parse(line string, logFileID int64) (model.LogEntry, error) {
	line, err := clean(line)
	if err != nil {
		return model.LogEntry{}, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return p.fallback.Parse(line, logFileID)
	}

	entry := base(line, logFileID, p.fallback.now())
	if v, ok := strField(data, "level", "severity"); ok {
		entry.Level = model.NormalizeLevel(v)
	}
	if v, ok := strField(data, "message", "msg"); ok && strings.TrimSpace(v) != "" {
		entry.Message = v
	}
	if v, ok := strField(data, "timestamp", "time", "ts"); ok {
		if t, ok := parseTimestamp(v); ok {
			entry.Timestamp = t
		}
	}
	if v, ok := strField(data, "source", "logger", "component"); ok && v != "" {
		entry.Source = v
	}
	if v, ok := strField(data, "function", "func"); ok && v != "" {
		entry.FunctionName = &v
	}
	if v, ok := strField(data, "line"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			entry.LineNumber = &n
		}
	}
	return entry, nil
}

// strField returns the first present key, rendered as a string.
func strField(data map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			return val, true
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64), true
		default:
			return fmt.Sprint(val), true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Auto Parser (format auto-detection)
// ---------------------------------------------------------------------------

// AutoParser sends lines that look like JSON objects to the JSON parser and
// everything else to the heuristic parser.
type AutoParser struct {
	json      *JSONParser
	heuristic *HeuristicParser
}

func NewAutoParser() *AutoParser {
	jp := NewJSONParser()
	return &AutoParser{json: jp, heuristic: jp.fallback}
}

func (p *AutoParser) Parse(line string, logFileID int64) (model.LogEntry, error) {
	if strings.HasPrefix(strings.TrimSpace(line), "{") {
		return p.json.Parse(line, logFileID)
	}
	return p.heuristic.Parse(line, logFileID)
}
