package models

import "time"

// KeywordMetric holds the per-keyword statistics computed across the corpus.
// Density values are percentages; Importance is clamped to [0,10].
type KeywordMetric struct {
	Keyword                  string   `json:"keyword"`
	Forms                    []string `json:"forms"`
	Frequency                int      `json:"frequency"`
	Density                  float64  `json:"density"`
	AvgCompetitorDensity     float64  `json:"avg_competitor_density"`
	DensityRatio             float64  `json:"density_ratio"`
	CompetitorCount          int      `json:"competitor_count"`
	TotalCompetitorFrequency int      `json:"total_competitor_frequency"`
	Importance               float64  `json:"importance"`
	IsTarget                 bool     `json:"is_target,omitempty"`
}

// SimilarityResult is the outcome of comparing the target text against the
// competitor texts. Score combines the lexical and embedding sub-scores.
type SimilarityResult struct {
	Score          int      `json:"score"`
	LexicalScore   int      `json:"lexical_score"`
	EmbeddingScore int      `json:"embedding_score"`
	Details        []string `json:"details"`
}

// KeywordAnalysis is the cached payload for one analysis: the keyword
// metrics together with the similarity result. ContentHash identifies the
// corpus the payload was computed from.
type KeywordAnalysis struct {
	Keywords    []KeywordMetric   `json:"keywords"`
	Similarity  *SimilarityResult `json:"similarity,omitempty"`
	LastUpdated time.Time         `json:"last_updated"`
	ContentHash string            `json:"content_hash"`
}
