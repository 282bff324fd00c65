package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// The backend emits naive ISO timestamps (no zone) for stored rows.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTime accepts RFC 3339 and zone-less ISO timestamps; the latter are UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (e *LogEntry) UnmarshalJSON(b []byte) error {
	type alias LogEntry
	aux := struct {
		*alias
		Timestamp string `json:"timestamp"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		return nil
	}
	t, err := ParseTime(aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}

func (f *LogFile) UnmarshalJSON(b []byte) error {
	type alias LogFile
	aux := struct {
		*alias
		UploadTime string `json:"upload_time"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.UploadTime == "" {
		return nil
	}
	t, err := ParseTime(aux.UploadTime)
	if err != nil {
		return err
	}
	f.UploadTime = t
	return nil
}
