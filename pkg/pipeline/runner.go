// Package pipeline drives a full keyword analysis run: SERP lookup,
// corpus build, keyword statistics, similarity scoring and persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/seoscope/seoscope/internal/common"
	"github.com/seoscope/seoscope/internal/metrics"
	"github.com/seoscope/seoscope/models"
	"github.com/seoscope/seoscope/pkg/cache"
	"github.com/seoscope/seoscope/pkg/corpus"
	"github.com/seoscope/seoscope/pkg/detector"
	"github.com/seoscope/seoscope/pkg/keywords"
	"github.com/seoscope/seoscope/pkg/serp"
	"github.com/seoscope/seoscope/pkg/similarity"
)

// SerpSearcher runs a live SERP query for a keyword.
type SerpSearcher interface {
	Search(ctx context.Context, keyword string, locationCode int) ([]models.SerpResultRow, error)
}

// Store is the persistence surface the runner needs. *db.DB satisfies it.
type Store interface {
	GetAnalysis(id string) (*models.Analysis, error)
	UpdateStatus(id string, status models.AnalysisStatus) error
	SaveSerpResults(id string, results []models.SerpResultRow, quickScore int) error
	SaveContentAnalysis(id string, content *models.ContentAnalysis) error
}

type Runner struct {
	store      Store
	serpClient SerpSearcher
	builder    *corpus.Builder
	cache      *cache.Cache
	detector   *detector.Detector
	scorer     *similarity.Scorer
	config     *models.Config
	logger     *slog.Logger
}

func NewRunner(store Store, serpClient SerpSearcher, builder *corpus.Builder, analysisCache *cache.Cache, scorer *similarity.Scorer, config *models.Config, logger *slog.Logger) *Runner {
	if config == nil {
		config = models.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:      store,
		serpClient: serpClient,
		builder:    builder,
		cache:      analysisCache,
		detector:   detector.New(),
		scorer:     scorer,
		config:     config,
		logger:     logger,
	}
}

// Run executes the full analysis for the stored record with the given ID.
// On failure the record moves to the error status; a previously stored
// keyword analysis payload stays untouched so stale-but-valid results
// survive a failed refresh.
func (r *Runner) Run(ctx context.Context, id string) error {
	start := time.Now()

	analysis, err := r.store.GetAnalysis(id)
	if err != nil {
		return fmt.Errorf("failed to load analysis %s: %w", id, err)
	}
	if analysis == nil {
		return fmt.Errorf("analysis %s not found", id)
	}

	if err := r.store.UpdateStatus(id, models.StatusProcessing); err != nil {
		return err
	}

	if err := r.run(ctx, analysis); err != nil {
		r.logger.Error("Analysis run failed", "id", id, "keyword", analysis.Keyword, "error", err)
		metrics.AnalysesByStatus.WithLabelValues(string(models.StatusError)).Inc()
		if statusErr := r.store.UpdateStatus(id, models.StatusError); statusErr != nil {
			r.logger.Error("Failed to record error status", "id", id, "error", statusErr)
		}
		return err
	}

	metrics.AnalysesByStatus.WithLabelValues(string(models.StatusCompleted)).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return r.store.UpdateStatus(id, models.StatusCompleted)
}

func (r *Runner) run(ctx context.Context, analysis *models.Analysis) error {
	serpResults, err := r.serpClient.Search(ctx, analysis.Keyword, r.config.Serp.LocationCode)
	if err != nil {
		return fmt.Errorf("SERP lookup failed: %w", err)
	}

	quickScore := serp.Difficulty(serpResults)
	if err := r.store.SaveSerpResults(analysis.ID, serpResults, quickScore); err != nil {
		return err
	}

	content, err := r.builder.Build(ctx, analysis.URL, r.competitorsFrom(serpResults, analysis.URL))
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}
	if err := r.store.SaveContentAnalysis(analysis.ID, content); err != nil {
		return err
	}

	keywordAnalysis, err := r.Recompute(ctx, analysis.ID, content, []string{analysis.Keyword})
	if err != nil {
		return err
	}

	r.logger.Info("Analysis completed",
		"id", analysis.ID,
		"keyword", analysis.Keyword,
		"quick_score", quickScore,
		"keywords", len(keywordAnalysis.Keywords),
		"similarity", keywordAnalysis.Similarity.Score)
	return nil
}

// Recompute computes keyword statistics and similarity for the corpus,
// serving from the cache when the stored payload matches the corpus hash.
// The fresh payload is written through the cache on success.
func (r *Runner) Recompute(ctx context.Context, id string, content *models.ContentAnalysis, targetKeywords []string) (*models.KeywordAnalysis, error) {
	contentHash, err := corpus.Hash(content)
	if err != nil {
		return nil, fmt.Errorf("failed to hash corpus: %w", err)
	}

	if cached := r.cache.Get(id); cached != nil && !r.cache.Stale(cached, contentHash) {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		r.logger.Info("Serving cached keyword analysis", "id", id)
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	language := r.detector.Detect(corpusSample(content))
	engine := keywords.NewEngine(r.config.WorkerCount, keywords.ForLanguage(language), r.logger)

	keywordMetrics, err := engine.Compute(ctx, content, targetKeywords)
	if err != nil {
		return nil, err
	}

	competitorTexts := make([]string, 0, len(content.Competitors))
	for _, competitor := range content.SelectedCompetitors() {
		competitorTexts = append(competitorTexts, competitor.PlainText())
	}
	similarityResult := r.scorer.Compare(content.OurDomain.PlainText(), competitorTexts)

	keywordAnalysis := &models.KeywordAnalysis{
		Keywords:    keywordMetrics,
		Similarity:  &similarityResult,
		LastUpdated: time.Now().UTC(),
		ContentHash: contentHash,
	}

	if err := r.cache.Set(id, keywordAnalysis); err != nil {
		return nil, fmt.Errorf("failed to persist keyword analysis: %w", err)
	}
	return keywordAnalysis, nil
}

// Invalidate drops the cached payload for an analysis so the next run
// recomputes from scratch.
func (r *Runner) Invalidate(id string) error {
	return r.cache.Invalidate(id)
}

// competitorsFrom turns SERP rows into the competitor list, skipping the
// target page's own domain so it is never counted against itself. Provider
// URLs are sanitized and malformed ones dropped before they reach the fetcher.
func (r *Runner) competitorsFrom(results []models.SerpResultRow, ourURL string) []corpus.Competitor {
	ourDomain := common.DomainOf(ourURL)

	competitors := make([]corpus.Competitor, 0, len(results))
	for _, result := range results {
		resultURL := common.SanitizeURL(result.URL)
		if resultURL == "" {
			continue
		}
		if !common.ValidateURL(resultURL) {
			r.logger.Warn("Skipping malformed SERP result URL", "url", result.URL)
			continue
		}
		domain := result.Domain
		if domain == "" {
			domain = common.DomainOf(resultURL)
		}
		if ourDomain != "" && domain == ourDomain {
			continue
		}
		competitors = append(competitors, corpus.Competitor{Domain: domain, URL: resultURL})
	}
	return competitors
}

// corpusSample concatenates a slice of the corpus text for language
// detection. The detector needs a sample, not the whole corpus.
func corpusSample(content *models.ContentAnalysis) string {
	var parts []string
	if text := content.OurDomain.PlainText(); text != "" {
		parts = append(parts, text)
	}
	for _, competitor := range content.Competitors {
		if text := competitor.PlainText(); text != "" {
			parts = append(parts, text)
		}
		if len(parts) >= 3 {
			break
		}
	}

	sample := strings.Join(parts, " ")
	const sampleLimit = 4000
	if len(sample) > sampleLimit {
		cut := sampleLimit
		for cut > 0 && !utf8.RuneStart(sample[cut]) {
			cut--
		}
		sample = sample[:cut]
	}
	return sample
}
