// Package serp talks to the third-party SERP data provider and derives the
// keyword difficulty score from the raw result rows.
package serp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/seoscope/seoscope/models"
)

// maxResults caps how many organic rows one query yields.
const maxResults = 10

// Credentials authenticate against the SERP provider (HTTP basic auth).
type Credentials struct {
	Login    string
	Password string
}

type Client struct {
	apiURL       string
	credentials  Credentials
	languageCode string
	depth        int
	client       *http.Client
	logger       *slog.Logger
}

func NewClient(cfg models.SerpConfig, credentials Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	depth := cfg.Depth
	if depth <= 0 {
		depth = maxResults
	}
	return &Client{
		apiURL:       cfg.APIURL,
		credentials:  credentials,
		languageCode: cfg.LanguageCode,
		depth:        depth,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

type taskRequest struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Device       string `json:"device"`
	OS           string `json:"os"`
	Depth        int    `json:"depth"`
}

// providerResponse mirrors the slice of the provider payload we read.
type providerResponse struct {
	Tasks []struct {
		Result []struct {
			Items []providerItem `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

type providerItem struct {
	Type                     string  `json:"type"`
	URL                      string  `json:"url"`
	Title                    string  `json:"title"`
	Description              string  `json:"description"`
	RankPosition             int     `json:"rank_position"`
	Domain                   string  `json:"domain"`
	LinksCount               int     `json:"links_count"`
	ETV                      float64 `json:"etv"`
	EstimatedPaidTrafficCost float64 `json:"estimated_paid_traffic_cost"`
}

// Search runs a live SERP query and returns up to ten rank-ordered organic
// result rows.
func (c *Client) Search(ctx context.Context, keyword string, locationCode int) ([]models.SerpResultRow, error) {
	payload, err := json.Marshal([]taskRequest{{
		Keyword:      keyword,
		LocationCode: locationCode,
		LanguageCode: c.languageCode,
		Device:       "desktop",
		OS:           "windows",
		Depth:        c.depth,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SERP request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build SERP request: %w", err)
	}
	req.SetBasicAuth(c.credentials.Login, c.credentials.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SERP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("SERP provider responded with status %d: %s", resp.StatusCode, body)
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode SERP response: %w", err)
	}

	if len(parsed.Tasks) == 0 || len(parsed.Tasks[0].Result) == 0 {
		c.logger.Warn("SERP provider returned no result items", "keyword", keyword)
		return []models.SerpResultRow{}, nil
	}

	rows := make([]models.SerpResultRow, 0, maxResults)
	for _, item := range parsed.Tasks[0].Result[0].Items {
		if item.Type != "organic" {
			continue
		}
		rows = append(rows, models.SerpResultRow{
			URL:                      item.URL,
			Title:                    item.Title,
			Description:              item.Description,
			Position:                 item.RankPosition,
			Domain:                   item.Domain,
			LinksCount:               item.LinksCount,
			EstimatedPaidTrafficCost: item.EstimatedPaidTrafficCost,
			ETV:                      item.ETV,
		})
		if len(rows) == maxResults {
			break
		}
	}

	return rows, nil
}
