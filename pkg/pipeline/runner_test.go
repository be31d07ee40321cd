package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/seoscope/seoscope/models"
	"github.com/seoscope/seoscope/pkg/cache"
	"github.com/seoscope/seoscope/pkg/corpus"
	"github.com/seoscope/seoscope/pkg/extractor"
	"github.com/seoscope/seoscope/pkg/similarity"
)

// memStore implements both the runner's Store and the cache's durable tier.
type memStore struct {
	mu       sync.Mutex
	analyses map[string]*models.Analysis
	payloads map[string]*models.KeywordAnalysis
	writes   int
}

func newMemStore() *memStore {
	return &memStore{
		analyses: make(map[string]*models.Analysis),
		payloads: make(map[string]*models.KeywordAnalysis),
	}
}

func (s *memStore) add(id, keyword, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[id] = &models.Analysis{
		ID:      id,
		Keyword: keyword,
		URL:     url,
		Status:  models.StatusPending,
	}
}

func (s *memStore) GetAnalysis(id string) (*models.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (s *memStore) UpdateStatus(id string, status models.AnalysisStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Status = status
	}
	return nil
}

func (s *memStore) SaveSerpResults(id string, results []models.SerpResultRow, quickScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.SerpResults = results
		a.QuickScore = quickScore
	}
	return nil
}

func (s *memStore) SaveContentAnalysis(id string, content *models.ContentAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.ContentAnalysis = content
	}
	return nil
}

func (s *memStore) ReadKeywordAnalysis(id string) (*models.KeywordAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads[id], nil
}

func (s *memStore) WriteKeywordAnalysis(id string, analysis *models.KeywordAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.payloads[id] = analysis
	return nil
}

func (s *memStore) DeleteKeywordAnalysis(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.payloads, id)
	return nil
}

func (s *memStore) status(id string) models.AnalysisStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyses[id].Status
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// stubSerp returns canned SERP rows or a canned error.
type stubSerp struct {
	rows []models.SerpResultRow
	err  error
}

func (s *stubSerp) Search(context.Context, string, int) ([]models.SerpResultRow, error) {
	return s.rows, s.err
}

// stubFetcher serves canned HTML pages.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if html, ok := f.pages[url]; ok {
		return []byte(html), nil
	}
	return nil, errors.New("fetch failed")
}

func page(paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, p := range paragraphs {
		sb.WriteString("<p>")
		sb.WriteString(p)
		sb.WriteString("</p>")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func testConfig() *models.Config {
	config := models.DefaultConfig()
	config.CompetitorDelay = 0
	config.WorkerCount = 2
	return config
}

func newTestRunner(store *memStore, serpClient SerpSearcher, fetcher corpus.Fetcher) *Runner {
	builder := corpus.NewBuilder(fetcher, extractor.New(nil), 0, nil)
	analysisCache := cache.New(store, time.Minute, nil)
	scorer := similarity.NewScorer(similarity.NewMockEmbedder(), nil)
	return NewRunner(store, serpClient, builder, analysisCache, scorer, testConfig(), nil)
}

func TestRun_FullAnalysis(t *testing.T) {
	store := newMemStore()
	store.add("id-1", "espresso grinder", "https://ours.com/page")

	serpClient := &stubSerp{rows: []models.SerpResultRow{
		{URL: "https://comp1.com/page", Domain: "comp1.com", Position: 1, LinksCount: 800},
		{URL: "https://comp2.com/page", Domain: "comp2.com", Position: 2, ETV: 1500},
	}}

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ours.com/page":  page("Our espresso grinder guide covers burr grinders in detail."),
		"https://comp1.com/page": page("Competitor one reviews espresso grinders and burr machines."),
		"https://comp2.com/page": page("Competitor two compares espresso grinder models for home use."),
	}}

	runner := newTestRunner(store, serpClient, fetcher)

	if err := runner.Run(context.Background(), "id-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := store.status("id-1"); got != models.StatusCompleted {
		t.Errorf("status = %q, want completed", got)
	}

	analysis, _ := store.GetAnalysis("id-1")
	if analysis.QuickScore <= 0 {
		t.Errorf("QuickScore = %d, want positive from SERP rows", analysis.QuickScore)
	}
	if analysis.ContentAnalysis == nil {
		t.Fatal("ContentAnalysis = nil, want stored corpus")
	}
	if len(analysis.ContentAnalysis.Competitors) != 2 {
		t.Errorf("competitors = %d, want 2", len(analysis.ContentAnalysis.Competitors))
	}

	payload, _ := store.ReadKeywordAnalysis("id-1")
	if payload == nil {
		t.Fatal("keyword analysis payload missing after run")
	}
	if len(payload.Keywords) == 0 {
		t.Error("payload has no keyword metrics")
	}
	if payload.Similarity == nil {
		t.Error("payload has no similarity result")
	}
	if payload.ContentHash == "" {
		t.Error("payload missing content hash")
	}
}

func TestRun_SkipsOurOwnDomainInSerp(t *testing.T) {
	store := newMemStore()
	store.add("id-1", "espresso", "https://ours.com/page")

	serpClient := &stubSerp{rows: []models.SerpResultRow{
		{URL: "https://ours.com/page", Domain: "ours.com", Position: 1},
		{URL: "https://comp1.com/page", Domain: "comp1.com", Position: 2},
	}}

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ours.com/page":  page("Our espresso page with enough text to pass extraction."),
		"https://comp1.com/page": page("Competitor espresso page with enough text to pass extraction."),
	}}

	runner := newTestRunner(store, serpClient, fetcher)

	if err := runner.Run(context.Background(), "id-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	analysis, _ := store.GetAnalysis("id-1")
	if len(analysis.ContentAnalysis.Competitors) != 1 {
		t.Fatalf("competitors = %d, want own domain excluded", len(analysis.ContentAnalysis.Competitors))
	}
	if analysis.ContentAnalysis.Competitors[0].Domain != "comp1.com" {
		t.Errorf("competitor = %q, want comp1.com", analysis.ContentAnalysis.Competitors[0].Domain)
	}
}

func TestRun_DropsMalformedSerpURLs(t *testing.T) {
	store := newMemStore()
	store.add("id-1", "espresso", "https://ours.com/page")

	serpClient := &stubSerp{rows: []models.SerpResultRow{
		{URL: "(https://comp1.com/page)", Domain: "comp1.com", Position: 1},
		{URL: "not a url at all", Position: 2},
		{URL: "ftp://comp3.com/page", Domain: "comp3.com", Position: 3},
	}}

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ours.com/page":  page("Our espresso page with enough text to pass extraction."),
		"https://comp1.com/page": page("Competitor espresso page with enough text to pass extraction."),
	}}

	runner := newTestRunner(store, serpClient, fetcher)

	if err := runner.Run(context.Background(), "id-1"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The bracket-wrapped URL is cleaned up and fetched; the other two
	// never reach the fetcher.
	analysis, _ := store.GetAnalysis("id-1")
	if len(analysis.ContentAnalysis.Competitors) != 1 {
		t.Fatalf("competitors = %d, want only the sanitized URL kept", len(analysis.ContentAnalysis.Competitors))
	}
	if analysis.ContentAnalysis.Competitors[0].Domain != "comp1.com" {
		t.Errorf("competitor = %q, want comp1.com", analysis.ContentAnalysis.Competitors[0].Domain)
	}
}

func TestRun_SerpFailureSetsErrorStatus(t *testing.T) {
	store := newMemStore()
	store.add("id-1", "espresso", "")
	store.payloads["id-1"] = &models.KeywordAnalysis{ContentHash: "previous"}

	runner := newTestRunner(store, &stubSerp{err: errors.New("provider down")}, &stubFetcher{})

	if err := runner.Run(context.Background(), "id-1"); err == nil {
		t.Fatal("Run() error = nil, want SERP failure surfaced")
	}

	if got := store.status("id-1"); got != models.StatusError {
		t.Errorf("status = %q, want error", got)
	}

	// A failed refresh must not destroy the previous payload.
	payload, _ := store.ReadKeywordAnalysis("id-1")
	if payload == nil || payload.ContentHash != "previous" {
		t.Errorf("previous payload = %+v, want preserved after failure", payload)
	}
}

func TestRun_UnknownAnalysis(t *testing.T) {
	store := newMemStore()
	runner := newTestRunner(store, &stubSerp{}, &stubFetcher{})

	if err := runner.Run(context.Background(), "missing"); err == nil {
		t.Error("Run() error = nil, want unknown ID rejected")
	}
}

func TestRecompute_ServesFromCacheWhenHashMatches(t *testing.T) {
	store := newMemStore()
	runner := newTestRunner(store, &stubSerp{}, &stubFetcher{})

	content := &models.ContentAnalysis{OurDomain: models.NewPageContent()}
	content.OurDomain.Texts = []string{"espresso grinder burr espresso tamper scale"}
	content.OurDomain.Recount()
	comp := models.NewPageContent()
	comp.Domain = "comp1.com"
	comp.Texts = []string{"espresso grinder comparison for home baristas"}
	comp.Recount()
	content.Competitors = []models.PageContent{comp}
	content.SelectAll()

	first, err := runner.Recompute(context.Background(), "id-1", content, []string{"espresso"})
	if err != nil {
		t.Fatalf("Recompute() first call error = %v", err)
	}

	second, err := runner.Recompute(context.Background(), "id-1", content, []string{"espresso"})
	if err != nil {
		t.Fatalf("Recompute() second call error = %v", err)
	}

	if first.ContentHash != second.ContentHash {
		t.Error("content hash changed between identical recomputes")
	}
	if store.writeCount() != 1 {
		t.Errorf("durable writes = %d, want second call served from cache", store.writeCount())
	}
}

func TestRecompute_RecomputesWhenCorpusChanges(t *testing.T) {
	store := newMemStore()
	runner := newTestRunner(store, &stubSerp{}, &stubFetcher{})

	content := &models.ContentAnalysis{OurDomain: models.NewPageContent()}
	content.OurDomain.Texts = []string{"espresso grinder guide"}
	content.OurDomain.Recount()
	content.SelectAll()

	first, err := runner.Recompute(context.Background(), "id-1", content, nil)
	if err != nil {
		t.Fatalf("Recompute() first call error = %v", err)
	}

	content.OurDomain.Texts = []string{"completely rewritten page about tampers"}
	content.OurDomain.Recount()

	second, err := runner.Recompute(context.Background(), "id-1", content, nil)
	if err != nil {
		t.Fatalf("Recompute() second call error = %v", err)
	}

	if first.ContentHash == second.ContentHash {
		t.Error("content hash did not change with the corpus")
	}
	if store.writeCount() != 2 {
		t.Errorf("durable writes = %d, want recompute on corpus change", store.writeCount())
	}
}
