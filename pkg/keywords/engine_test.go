package keywords

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/seoscope/seoscope/models"
)

func buildCorpus(ourText string, competitorTexts ...string) *models.ContentAnalysis {
	analysis := &models.ContentAnalysis{OurDomain: models.NewPageContent()}
	analysis.OurDomain.Domain = models.OurDomain
	analysis.OurDomain.Texts = []string{ourText}
	analysis.OurDomain.Recount()

	for i, text := range competitorTexts {
		comp := models.NewPageContent()
		comp.Domain = string(rune('a'+i)) + ".com"
		comp.Texts = []string{text}
		comp.Recount()
		analysis.Competitors = append(analysis.Competitors, comp)
	}

	analysis.SelectAll()
	return analysis
}

func findMetric(metrics []models.KeywordMetric, keyword string) *models.KeywordMetric {
	for i := range metrics {
		if metrics[i].Keyword == keyword {
			return &metrics[i]
		}
	}
	return nil
}

func TestCompute_FrequencyAndDensity(t *testing.T) {
	corpus := buildCorpus(
		"espresso espresso grinder",
		"espresso machine review",
		"grinder burr review",
	)

	engine := NewEngine(2, ForLanguage("en"), nil)
	metrics, err := engine.Compute(context.Background(), corpus, nil)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	espresso := findMetric(metrics, "espresso")
	if espresso == nil {
		t.Fatal("metric for espresso missing")
	}
	if espresso.Frequency != 2 {
		t.Errorf("espresso.Frequency = %d, want 2", espresso.Frequency)
	}
	wantDensity := 2.0 / 3.0 * 100
	if math.Abs(espresso.Density-wantDensity) > 1e-9 {
		t.Errorf("espresso.Density = %f, want %f", espresso.Density, wantDensity)
	}
	if espresso.CompetitorCount != 1 {
		t.Errorf("espresso.CompetitorCount = %d, want 1", espresso.CompetitorCount)
	}

	review := findMetric(metrics, "review")
	if review == nil {
		t.Fatal("metric for review missing")
	}
	if review.Frequency != 0 {
		t.Errorf("review.Frequency = %d, want 0 in our text", review.Frequency)
	}
	if review.CompetitorCount != 2 {
		t.Errorf("review.CompetitorCount = %d, want 2", review.CompetitorCount)
	}
	if review.TotalCompetitorFrequency != 2 {
		t.Errorf("review.TotalCompetitorFrequency = %d, want 2", review.TotalCompetitorFrequency)
	}
}

func TestCompute_StopwordsAndShortTokensFiltered(t *testing.T) {
	corpus := buildCorpus("the espresso and the grinder is it ok", "espresso grinder")

	engine := NewEngine(1, ForLanguage("en"), nil)
	metrics, err := engine.Compute(context.Background(), corpus, nil)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for _, banned := range []string{"the", "and", "is", "it", "ok"} {
		if findMetric(metrics, banned) != nil {
			t.Errorf("metric for %q present, want filtered", banned)
		}
	}
	if findMetric(metrics, "espresso") == nil {
		t.Error("metric for espresso missing")
	}
}

func TestCompute_TargetKeywordAlwaysIncluded(t *testing.T) {
	corpus := buildCorpus("espresso grinder", "espresso review")

	engine := NewEngine(1, ForLanguage("en"), nil)
	metrics, err := engine.Compute(context.Background(), corpus, []string{"Portafilter"})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	portafilter := findMetric(metrics, "portafilter")
	if portafilter == nil {
		t.Fatal("target keyword missing from metrics")
	}
	if !portafilter.IsTarget {
		t.Error("IsTarget = false, want true")
	}
	if portafilter.Frequency != 0 || portafilter.CompetitorCount != 0 {
		t.Error("absent target keyword should have zero counts")
	}
	if portafilter.Importance != 2 {
		t.Errorf("Importance = %f, want 2 from target bonus alone", portafilter.Importance)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	corpus := buildCorpus(
		"espresso grinder burr espresso tamper",
		"espresso machine grinder",
		"tamper scale review grinder",
		"espresso portafilter basket",
	)

	engine := NewEngine(4, ForLanguage("en"), nil)

	first, err := engine.Compute(context.Background(), corpus, []string{"espresso"})
	if err != nil {
		t.Fatalf("Compute() first run error = %v", err)
	}
	second, err := engine.Compute(context.Background(), corpus, []string{"espresso"})
	if err != nil {
		t.Fatalf("Compute() second run error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same corpus produced different metrics")
	}
}

func TestCompute_Cancellation(t *testing.T) {
	corpus := buildCorpus("espresso grinder", "espresso review")

	engine := NewEngine(2, ForLanguage("en"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Compute(ctx, corpus, nil); err == nil {
		t.Error("Compute() error = nil, want cancellation to fail the computation")
	}
}

func TestCompute_Progress(t *testing.T) {
	corpus := buildCorpus("espresso grinder", "espresso review", "grinder burr", "tamper scale")

	engine := NewEngine(2, ForLanguage("en"), nil)

	var percents []int
	engine.OnProgress(func(p int) { percents = append(percents, p) })

	if _, err := engine.Compute(context.Background(), corpus, nil); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if len(percents) != 4 {
		t.Fatalf("progress callbacks = %d, want one per document", len(percents))
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Errorf("progress went backwards: %v", percents)
		}
	}
	if percents[len(percents)-1] != 100 {
		t.Errorf("final progress = %d, want 100", percents[len(percents)-1])
	}
}

func TestImportanceScore(t *testing.T) {
	tests := []struct {
		name             string
		competitorCount  int
		totalCompetitors int
		avgDensity       float64
		isTarget         bool
		want             float64
	}{
		{"absent everywhere", 0, 4, 0, false, 0},
		{"half presence low density", 2, 4, 0.1, false, 4},
		{"half presence mid density", 2, 4, 0.3, false, 5},
		{"full presence high density", 4, 4, 0.6, false, 8},
		{"term in all three competitors at 5 percent", 3, 3, 5.0, false, 8},
		{"full presence high density target", 4, 4, 0.6, true, 10},
		{"no competitors target only", 0, 0, 0, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := importanceScore(tt.competitorCount, tt.totalCompetitors, tt.avgDensity, tt.isTarget)
			if got != tt.want {
				t.Errorf("importanceScore() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestForLanguage(t *testing.T) {
	en := ForLanguage("en")
	if !IsStopword(en, "the") {
		t.Error("english set should contain 'the'")
	}

	uk := ForLanguage("uk")
	if !IsStopword(uk, "або") {
		t.Error("ukrainian set should contain 'або'")
	}

	fallback := ForLanguage("de")
	if !IsStopword(fallback, "the") {
		t.Error("unknown language should fall back to the english set")
	}
}
