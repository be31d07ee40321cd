// Package corpus orchestrates fetch and extraction across a target page and
// its competitors, producing the ContentAnalysis consumed by the keyword and
// similarity engines.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seoscope/seoscope/internal/common"
	"github.com/seoscope/seoscope/models"
)

// Fetcher retrieves raw HTML for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns raw HTML into structured page content.
type Extractor interface {
	Extract(url, html string) models.PageContent
}

// Competitor identifies one competitor page to include in the corpus.
type Competitor struct {
	Domain string `json:"domain"`
	URL    string `json:"url"`
}

// Builder fetches and extracts pages sequentially, with a fixed courtesy
// delay between competitor requests.
type Builder struct {
	fetcher    Fetcher
	extractor  Extractor
	delay      time.Duration
	logger     *slog.Logger
	onProgress func(string)
}

func NewBuilder(fetcher Fetcher, extractor Extractor, delay time.Duration, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{fetcher: fetcher, extractor: extractor, delay: delay, logger: logger}
}

// OnProgress registers a callback receiving human-readable progress lines.
func (b *Builder) OnProgress(fn func(string)) { b.onProgress = fn }

func (b *Builder) progress(format string, args ...interface{}) {
	if b.onProgress != nil {
		b.onProgress(fmt.Sprintf(format, args...))
	}
}

// Build fetches the target page (when ourURL is non-empty) and each
// competitor in order. Per-page fetch failures are logged and tolerated; a
// competitor whose extraction yields no words and no headers is dropped.
// Only context cancellation aborts the build as a whole.
func (b *Builder) Build(ctx context.Context, ourURL string, competitors []Competitor) (*models.ContentAnalysis, error) {
	b.progress("Starting content analysis...")

	analysis := &models.ContentAnalysis{
		OurDomain:   models.NewPageContent(),
		Competitors: []models.PageContent{},
	}

	if ourURL != "" {
		b.progress("Analyzing our content at %s...", ourURL)
		content, err := b.parsePage(ctx, ourURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Error("Failed to parse our URL", "url", ourURL, "error", err)
		} else {
			content.Domain = models.OurDomain
			analysis.OurDomain = content
		}
	}

	for i, competitor := range competitors {
		b.progress("Analyzing competitor %d of %d: %s...", i+1, len(competitors), competitor.Domain)

		content, err := b.parsePage(ctx, competitor.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Error("Failed to parse competitor URL", "url", competitor.URL, "error", err)
		} else if content.IsEmpty() {
			b.logger.Warn("Competitor extraction yielded no content, dropping", "domain", competitor.Domain, "url", competitor.URL)
		} else {
			if competitor.Domain != "" {
				content.Domain = competitor.Domain
			}
			analysis.Competitors = append(analysis.Competitors, content)
		}

		// Courtesy delay toward third-party fetch endpoints.
		if i < len(competitors)-1 && b.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.delay):
			}
		}
	}

	analysis.SelectAll()
	b.progress("Content analysis completed!")
	return analysis, nil
}

func (b *Builder) parsePage(ctx context.Context, url string) (models.PageContent, error) {
	html, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("fetch failed: %w", err)
	}
	return b.extractor.Extract(url, string(html)), nil
}

// Hash returns the content hash of a corpus, used by the cache staleness
// check: a changed corpus invalidates cached keyword analysis even inside
// the TTL window.
func Hash(analysis *models.ContentAnalysis) (string, error) {
	return common.HashJSON(analysis)
}
