package model

// Incident is a past analyzed log returned by the backend's similarity search.
type Incident struct {
	IncidentID      string  `json:"incident_id"`
	Severity        string  `json:"severity"`
	Category        string  `json:"category"`
	SimilarityScore float64 `json:"similarity_score"`
	Timestamp       string  `json:"timestamp"`
	LogContent      string  `json:"log_content"`
	Analysis        string  `json:"analysis"`
	SourceFile      string  `json:"source_file"`
}

// SearchResult is the response of GET /vector/search.
type SearchResult struct {
	Query      string     `json:"query"`
	TotalFound int        `json:"total_found"`
	Results    []Incident `json:"results"`
}
