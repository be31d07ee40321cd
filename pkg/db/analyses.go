package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seoscope/seoscope/models"
)

// CreateAnalysis inserts a new pending analysis record and returns its ID.
func (db *DB) CreateAnalysis(keyword, url string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO analyses (id, keyword, url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, keyword, url, models.StatusPending, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert analysis: %w", err)
	}

	return id, nil
}

// GetAnalysis loads an analysis record by ID. Returns (nil, nil) when the
// record does not exist.
func (db *DB) GetAnalysis(id string) (*models.Analysis, error) {
	row := db.QueryRow(`
		SELECT id, keyword, url, quick_score, status,
		       serp_results, content_analysis, keyword_analysis,
		       created_at, updated_at
		FROM analyses WHERE id = ?
	`, id)

	var analysis models.Analysis
	var url, serpJSON, contentJSON, keywordJSON sql.NullString
	err := row.Scan(&analysis.ID, &analysis.Keyword, &url, &analysis.QuickScore,
		&analysis.Status, &serpJSON, &contentJSON, &keywordJSON,
		&analysis.CreatedAt, &analysis.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	analysis.URL = url.String
	if serpJSON.Valid && serpJSON.String != "" {
		if err := json.Unmarshal([]byte(serpJSON.String), &analysis.SerpResults); err != nil {
			return nil, fmt.Errorf("failed to decode serp results: %w", err)
		}
	}
	if contentJSON.Valid && contentJSON.String != "" {
		if err := json.Unmarshal([]byte(contentJSON.String), &analysis.ContentAnalysis); err != nil {
			return nil, fmt.Errorf("failed to decode content analysis: %w", err)
		}
	}
	if keywordJSON.Valid && keywordJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordJSON.String), &analysis.KeywordAnalysis); err != nil {
			return nil, fmt.Errorf("failed to decode keyword analysis: %w", err)
		}
	}

	return &analysis, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (db *DB) ListAnalyses(limit int) ([]models.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT id, keyword, url, quick_score, status, created_at, updated_at
		FROM analyses ORDER BY updated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var analysis models.Analysis
		var url sql.NullString
		if err := rows.Scan(&analysis.ID, &analysis.Keyword, &url,
			&analysis.QuickScore, &analysis.Status,
			&analysis.CreatedAt, &analysis.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analysis.URL = url.String
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

// UpdateStatus moves an analysis to the given lifecycle status.
func (db *DB) UpdateStatus(id string, status models.AnalysisStatus) error {
	_, err := db.Exec(`
		UPDATE analyses SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// SaveSerpResults stores the SERP rows and quick score for an analysis.
func (db *DB) SaveSerpResults(id string, results []models.SerpResultRow, quickScore int) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode serp results: %w", err)
	}

	_, err = db.Exec(`
		UPDATE analyses SET serp_results = ?, quick_score = ?, updated_at = ?
		WHERE id = ?
	`, string(payload), quickScore, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to save serp results: %w", err)
	}
	return nil
}

// SaveContentAnalysis stores the corpus snapshot for an analysis.
func (db *DB) SaveContentAnalysis(id string, content *models.ContentAnalysis) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode content analysis: %w", err)
	}

	_, err = db.Exec(`
		UPDATE analyses SET content_analysis = ?, updated_at = ?
		WHERE id = ?
	`, string(payload), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to save content analysis: %w", err)
	}
	return nil
}

// ReadKeywordAnalysis loads the keyword analysis payload for an analysis.
// Returns (nil, nil) when the record has no payload yet.
func (db *DB) ReadKeywordAnalysis(id string) (*models.KeywordAnalysis, error) {
	var payload sql.NullString
	err := db.QueryRow("SELECT keyword_analysis FROM analyses WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword analysis: %w", err)
	}
	if !payload.Valid || payload.String == "" {
		return nil, nil
	}

	var analysis models.KeywordAnalysis
	if err := json.Unmarshal([]byte(payload.String), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode keyword analysis: %w", err)
	}
	return &analysis, nil
}

// WriteKeywordAnalysis stores the keyword analysis payload for an analysis.
func (db *DB) WriteKeywordAnalysis(id string, analysis *models.KeywordAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode keyword analysis: %w", err)
	}

	_, err = db.Exec(`
		UPDATE analyses
		SET keyword_analysis = ?, content_hash = ?, last_analysis_at = ?, updated_at = ?
		WHERE id = ?
	`, string(payload), analysis.ContentHash, analysis.LastUpdated, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to write keyword analysis: %w", err)
	}
	return nil
}

// DeleteKeywordAnalysis clears the keyword analysis payload for an analysis.
func (db *DB) DeleteKeywordAnalysis(id string) error {
	_, err := db.Exec(`
		UPDATE analyses
		SET keyword_analysis = NULL, content_hash = NULL, updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword analysis: %w", err)
	}
	return nil
}
