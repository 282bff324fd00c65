package model

import "time"

// AnalysisStatus tracks whether a log file has been through AI analysis.
type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"
	AnalysisCompleted AnalysisStatus = "completed"
)

// LogFile is an uploaded raw-text artifact owning zero or more entries.
type LogFile struct {
	ID             int64          `json:"id,omitempty"`
	Filename       string         `json:"filename"`
	Size           int64          `json:"size"`
	UploadTime     time.Time      `json:"upload_time"`
	LogCount       int            `json:"log_count"`
	AnalysisStatus AnalysisStatus `json:"log_analysis_status"`
	AnalysisResult *string        `json:"analysis_result"`
	Content        string         `json:"content"`
}

// Analyzed reports whether the backend holds an analysis for the file.
func (f LogFile) Analyzed() bool {
	return f.AnalysisStatus == AnalysisCompleted && f.AnalysisResult != nil
}
