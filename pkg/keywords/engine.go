// Package keywords computes per-keyword frequency, density and importance
// statistics across a corpus, dispatching per-document tokenization to a
// bounded worker pool.
package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/seoscope/seoscope/models"
)

// DefaultWorkerCount bounds the tokenization pool when no count is given.
const DefaultWorkerCount = 4

// minTokenLength: tokens this short or shorter are dropped during
// normalization.
const minTokenLength = 2

// cancelCheckInterval is how many tokens a worker processes between
// context-cancellation checks.
const cancelCheckInterval = 256

// tokenSplitRe splits on anything that is not a letter, apostrophe or
// hyphen.
var tokenSplitRe = regexp.MustCompile(`[^\p{L}'-]+`)

// Engine computes keyword statistics. The stopword set is fixed per
// instance; construct with ForLanguage for the corpus language.
type Engine struct {
	workers    int
	stopwords  map[string]struct{}
	logger     *slog.Logger
	onProgress func(percent int)
}

func NewEngine(workers int, stopwords map[string]struct{}, logger *slog.Logger) *Engine {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if stopwords == nil {
		stopwords = englishStopwords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{workers: workers, stopwords: stopwords, logger: logger}
}

// OnProgress registers a callback receiving a monotonically increasing
// completion percentage.
func (e *Engine) OnProgress(fn func(percent int)) { e.onProgress = fn }

// docTask is the unit of work submitted to the pool: one document.
type docTask struct {
	id   int
	text string
}

// docResult is the message a worker sends back to the coordinator.
type docResult struct {
	id         int
	terms      map[string]*termEntry
	totalWords int
	err        error
}

type termEntry struct {
	frequency int
	forms     map[string]struct{}
}

// Compute tokenizes the target document and every selected competitor,
// then merges the per-document frequency maps into keyword metrics. Any
// document failure fails the whole computation: the merge step requires a
// complete set of maps, so partial results are never returned.
func (e *Engine) Compute(ctx context.Context, corpus *models.ContentAnalysis, targetKeywords []string) ([]models.KeywordMetric, error) {
	competitors := corpus.SelectedCompetitors()

	// Document 0 is always the target; competitors follow in order.
	texts := make([]string, 0, len(competitors)+1)
	texts = append(texts, corpus.OurDomain.PlainText())
	for _, comp := range competitors {
		texts = append(texts, comp.PlainText())
	}

	results, err := e.runPool(ctx, texts)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(targetKeywords))
	for _, kw := range targetKeywords {
		if normalized := e.normalizeToken(kw); normalized != "" {
			targets[normalized] = struct{}{}
		}
	}

	return e.merge(results[0], results[1:], targets), nil
}

// runPool dispatches one task per document to a bounded worker pool and
// waits for every task to report back. Workers share nothing; they
// communicate with the coordinator only through the results channel.
func (e *Engine) runPool(ctx context.Context, texts []string) ([]docResult, error) {
	jobs := make(chan docTask, len(texts))
	results := make(chan docResult, len(texts))

	workers := e.workers
	if workers > len(texts) {
		workers = len(texts)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range jobs {
				terms, total, err := e.processDocument(ctx, task.text)
				results <- docResult{id: task.id, terms: terms, totalWords: total, err: err}
			}
		}()
	}

	for i, text := range texts {
		jobs <- docTask{id: i, text: text}
	}
	close(jobs)

	ordered := make([]docResult, len(texts))
	var firstErr error
	for completed := 1; completed <= len(texts); completed++ {
		res := <-results
		ordered[res.id] = res
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		if e.onProgress != nil {
			e.onProgress(completed * 100 / len(texts))
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("keyword computation failed: %w", firstErr)
	}
	return ordered, nil
}

// processDocument builds the term frequency map for one document in a
// single pass, tracking the distinct surface forms per normalized term.
// Cancellation is honored at tokenization-loop granularity.
func (e *Engine) processDocument(ctx context.Context, text string) (map[string]*termEntry, int, error) {
	terms := make(map[string]*termEntry)
	total := 0

	for i, raw := range tokenSplitRe.Split(text, -1) {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}

		form := strings.Trim(raw, "'-")
		normalized := e.normalizeToken(form)
		if normalized == "" {
			continue
		}

		total++
		entry, ok := terms[normalized]
		if !ok {
			entry = &termEntry{forms: make(map[string]struct{}, 1)}
			terms[normalized] = entry
		}
		entry.frequency++
		entry.forms[form] = struct{}{}
	}

	return terms, total, nil
}

// normalizeToken lowercases a token and rejects short tokens and stopwords.
// Returns "" for tokens that carry no signal.
func (e *Engine) normalizeToken(form string) string {
	normalized := strings.ToLower(strings.TrimSpace(form))
	if utf8.RuneCountInString(normalized) <= minTokenLength {
		return ""
	}
	if _, stop := e.stopwords[normalized]; stop {
		return ""
	}
	return normalized
}

// merge joins the per-document maps into the final keyword set: the union
// of terms seen in any selected document plus the caller-supplied target
// keywords.
func (e *Engine) merge(our docResult, competitors []docResult, targets map[string]struct{}) []models.KeywordMetric {
	union := make(map[string]struct{}, len(our.terms))
	for term := range our.terms {
		union[term] = struct{}{}
	}
	for _, comp := range competitors {
		for term := range comp.terms {
			union[term] = struct{}{}
		}
	}
	for term := range targets {
		union[term] = struct{}{}
	}

	metrics := make([]models.KeywordMetric, 0, len(union))
	for term := range union {
		metric := models.KeywordMetric{Keyword: term}

		forms := make(map[string]struct{})
		if entry, ok := our.terms[term]; ok {
			metric.Frequency = entry.frequency
			for form := range entry.forms {
				forms[form] = struct{}{}
			}
		}
		if our.totalWords > 0 {
			metric.Density = float64(metric.Frequency) / float64(our.totalWords) * 100
		}

		var densitySum float64
		for _, comp := range competitors {
			entry, ok := comp.terms[term]
			if !ok {
				continue
			}
			metric.CompetitorCount++
			metric.TotalCompetitorFrequency += entry.frequency
			if comp.totalWords > 0 {
				densitySum += float64(entry.frequency) / float64(comp.totalWords) * 100
			}
			for form := range entry.forms {
				forms[form] = struct{}{}
			}
		}

		divisor := len(competitors)
		if divisor < 1 {
			divisor = 1
		}
		metric.AvgCompetitorDensity = densitySum / float64(divisor)
		if metric.AvgCompetitorDensity > 0 {
			metric.DensityRatio = metric.Density / metric.AvgCompetitorDensity
		}

		_, metric.IsTarget = targets[term]
		metric.Importance = importanceScore(metric.CompetitorCount, len(competitors), metric.AvgCompetitorDensity, metric.IsTarget)

		metric.Forms = make([]string, 0, len(forms))
		for form := range forms {
			metric.Forms = append(metric.Forms, form)
		}
		sort.Strings(metric.Forms)

		metrics = append(metrics, metric)
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Importance != metrics[j].Importance {
			return metrics[i].Importance > metrics[j].Importance
		}
		if metrics[i].Frequency != metrics[j].Frequency {
			return metrics[i].Frequency > metrics[j].Frequency
		}
		return metrics[i].Keyword < metrics[j].Keyword
	})

	return metrics
}

// importanceScore is the 0-10 composite heuristic: competitor presence
// (0-5), competitor density (0-3) and a target-keyword bonus (0 or 2),
// each clamped before summing, the total clamped to 10.
func importanceScore(competitorCount, totalCompetitors int, avgDensity float64, isTarget bool) float64 {
	var presence float64
	if totalCompetitors > 0 {
		presence = math.Round(5 * float64(competitorCount) / float64(totalCompetitors))
	}
	presence = clamp(presence, 0, 5)

	var density float64
	switch {
	case avgDensity >= 0.5:
		density = 3
	case avgDensity >= 0.2:
		density = 2
	case avgDensity > 0:
		density = 1
	}

	var bonus float64
	if isTarget {
		bonus = 2
	}

	return clamp(presence+density+bonus, 0, 10)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
