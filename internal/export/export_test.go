package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/atikulmunna/logdash/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func sampleEntries() []model.LogEntry {
	return []model.LogEntry{
		{
			ID:           1,
			LogFileID:    4,
			Timestamp:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Level:        model.LevelError,
			Message:      `disk "sda" full, aborting`,
			Source:       "storage",
			FunctionName: strPtr("flush"),
			LineNumber:   intPtr(88),
		},
		{
			ID:        2,
			LogFileID: 4,
			Timestamp: time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC),
			Level:     model.LevelInfo,
			Message:   "ok",
			Source:    "unknown",
		},
	}
}

func TestCSVLayout(t *testing.T) {
	out, err := Render(sampleEntries()[:1], CSV)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(string(out), "\n")
	if lines[0] != "Timestamp,Level,Message,Source,Function,Line" {
		t.Errorf("unexpected header %q", lines[0])
	}
	want := `2024-01-01T10:00:00Z,ERROR,"disk ""sda"" full, aborting",storage,flush,88`
	if lines[1] != want {
		t.Errorf("expected row %q, got %q", want, lines[1])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := sampleEntries()
	out, err := Render(entries, CSV)
	if err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}

	first := records[1]
	if first[1] != "ERROR" || first[2] != entries[0].Message || first[3] != "storage" || first[4] != "flush" || first[5] != "88" {
		t.Errorf("unexpected first row %q", first)
	}

	second := records[2]
	if second[4] != "" || second[5] != "" {
		t.Errorf("expected missing optional fields to be empty, got %q", second)
	}
}

func TestJSONIsLossless(t *testing.T) {
	entries := sampleEntries()
	out, err := Render(entries, JSON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "\n  {") {
		t.Errorf("expected indented output, got %s", out)
	}

	var got []model.LogEntry
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != 1 || *got[0].LineNumber != 88 || got[1].FunctionName != nil {
		t.Errorf("unexpected decoded entries %+v", got)
	}
	if !got[1].Timestamp.Equal(entries[1].Timestamp) {
		t.Errorf("timestamp changed: %v", got[1].Timestamp)
	}
}

func TestJSONEmpty(t *testing.T) {
	out, err := Render(nil, JSON)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("expected [], got %s", out)
	}
}

func TestFilenames(t *testing.T) {
	if Filename(CSV, false) != "log_entries.csv" {
		t.Error("unexpected csv filename")
	}
	if Filename(JSON, false) != "log_entries.json" {
		t.Error("unexpected json filename")
	}
	if Filename(CSV, true) != "selected_log_entries.csv" {
		t.Error("unexpected selected filename")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
