package models

import "time"

// AnalysisStatus tracks the lifecycle of a stored analysis record.
type AnalysisStatus string

const (
	StatusPending    AnalysisStatus = "pending"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusError      AnalysisStatus = "error"
)

// Analysis is the persisted record for one keyword analysis.
// SerpResults, ContentAnalysis and KeywordAnalysis are stored as JSON blobs
// in the durable store.
type Analysis struct {
	ID              string           `json:"id"`
	Keyword         string           `json:"keyword"`
	URL             string           `json:"url,omitempty"`
	QuickScore      int              `json:"quick_score"`
	Status          AnalysisStatus   `json:"status"`
	SerpResults     []SerpResultRow  `json:"serp_results,omitempty"`
	ContentAnalysis *ContentAnalysis `json:"content_analysis,omitempty"`
	KeywordAnalysis *KeywordAnalysis `json:"keyword_analysis,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
