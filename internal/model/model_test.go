package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeLevel(t *testing.T) {
	tests := map[string]Level{
		"error":    LevelError,
		" Warning": LevelWarning,
		"WARN":     LevelWarn,
		"":         LevelUnknown,
		"fatal":    LevelUnknown,
	}
	for in, want := range tests {
		if got := NormalizeLevel(in); got != want {
			t.Errorf("NormalizeLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLogEntryDecodesNaiveTimestamp(t *testing.T) {
	raw := `{"id":3,"log_file_id":1,"timestamp":"2024-05-01T12:30:00.250000","level":"ERROR","message":"boom","source":"api","function_name":null,"line_number":12}`

	var e LogEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}

	want := time.Date(2024, 5, 1, 12, 30, 0, 250000000, time.UTC)
	if !e.Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, e.Timestamp)
	}
	if e.ID != 3 || e.Level != LevelError || e.LineNumber == nil || *e.LineNumber != 12 || e.FunctionName != nil {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestLogFileDecodes(t *testing.T) {
	raw := `{"id":2,"filename":"app.log","size":10,"upload_time":"2024-05-01T12:30:00Z","log_count":4,"log_analysis_status":"completed","analysis_result":"root cause","content":"x"}`

	var f LogFile
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatal(err)
	}
	if !f.Analyzed() || f.UploadTime.Year() != 2024 || f.Filename != "app.log" {
		t.Errorf("unexpected file %+v", f)
	}
}

func TestLogEntryRejectsGarbageTimestamp(t *testing.T) {
	var e LogEntry
	if err := json.Unmarshal([]byte(`{"timestamp":"yesterday"}`), &e); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
