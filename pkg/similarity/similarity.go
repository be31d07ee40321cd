// Package similarity scores how semantically close the target text is to
// its competitors, combining a lexical TF-IDF measure with an
// embedding-based one.
package similarity

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/seoscope/seoscope/models"
)

const insufficientContentDetail = "Insufficient content for analysis"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?-]`)
	tokenSplitRe = regexp.MustCompile(`[\s.,!?-]+`)
)

type Scorer struct {
	embedder Embedder
	logger   *slog.Logger
}

func NewScorer(embedder Embedder, logger *slog.Logger) *Scorer {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{embedder: embedder, logger: logger}
}

// Compare scores the target text against the competitor texts. An empty
// target or competitor set after normalization is a defined degenerate
// result (score 0 with an explanatory detail), not an error.
func (s *Scorer) Compare(targetText string, competitorTexts []string) models.SimilarityResult {
	validTarget := cleanText(targetText)
	validCompetitors := cleanTexts(competitorTexts)

	if validTarget == "" || len(validCompetitors) == 0 {
		return models.SimilarityResult{Score: 0, Details: []string{insufficientContentDetail}}
	}

	allDocs := append([]string{validTarget}, validCompetitors...)
	lexicalScore := s.lexicalScore(allDocs)
	embeddingScore, embeddingSims := s.embeddingScore(validTarget, validCompetitors)

	combined := int(math.Round(float64(lexicalScore+embeddingScore) / 2))

	details := []string{
		fmt.Sprintf("TF-IDF Similarity Score: %d%%", lexicalScore),
		fmt.Sprintf("Embedding Score: %d%%", embeddingScore),
	}

	if spread(embeddingSims) > 0.3 {
		details = append(details, "Significant variation in content similarity across competitors")
	}

	switch {
	case combined < 50:
		details = append(details,
			"Content shows significant differences from competitors",
			"Consider incorporating more industry-specific terminology")
	case combined < 75:
		details = append(details,
			"Content shows moderate semantic alignment with competitors",
			"Some room for improvement in topic coverage")
	default:
		details = append(details, "Strong semantic alignment with competitor content")
		if combined > 90 {
			details = append(details, "Warning: Content might be too similar to competitors")
		}
	}

	return models.SimilarityResult{
		Score:          combined,
		LexicalScore:   lexicalScore,
		EmbeddingScore: embeddingScore,
		Details:        details,
	}
}

// lexicalScore builds a TF-IDF term-document matrix over [target,
// competitors...] and averages the cosine similarity between the target
// vector and each competitor vector.
func (s *Scorer) lexicalScore(docs []string) int {
	matrix := termFrequencyMatrix(docs)

	vectors := make([][]float64, len(docs))
	for _, frequencies := range matrix {
		docsWithTerm := 0
		for _, freq := range frequencies {
			if freq > 0 {
				docsWithTerm++
			}
		}
		if docsWithTerm == 0 {
			continue
		}

		idf := math.Log(float64(len(docs)) / float64(docsWithTerm))
		for i, freq := range frequencies {
			vectors[i] = append(vectors[i], float64(freq)*idf)
		}
	}

	target := vectors[0]
	var sum float64
	for _, competitor := range vectors[1:] {
		sum += cosineSimilarity(target, competitor)
	}
	avg := sum / float64(len(docs)-1)

	return int(math.Round(avg * 100))
}

// embeddingScore averages the cosine similarity between the target document
// embedding and each competitor embedding. A document embedding is the mean
// of its token vectors.
func (s *Scorer) embeddingScore(target string, competitors []string) (int, []float64) {
	targetVec := s.documentEmbedding(target)

	similarities := make([]float64, len(competitors))
	var sum float64
	for i, competitor := range competitors {
		similarities[i] = cosineSimilarity(targetVec, s.documentEmbedding(competitor))
		sum += similarities[i]
	}
	avg := sum / float64(len(competitors))

	return int(math.Round(avg * 100)), similarities
}

func (s *Scorer) documentEmbedding(text string) []float64 {
	tokens := tokenize(text)
	embedding := make([]float64, s.embedder.Dimension())
	if len(tokens) == 0 {
		return embedding
	}

	for _, token := range tokens {
		for i, val := range s.embedder.Embed(token) {
			embedding[i] += val
		}
	}
	for i := range embedding {
		embedding[i] /= float64(len(tokens))
	}
	return embedding
}

func termFrequencyMatrix(docs []string) map[string][]int {
	matrix := make(map[string][]int)
	for i, doc := range docs {
		for _, term := range tokenize(doc) {
			if _, ok := matrix[term]; !ok {
				matrix[term] = make([]int, len(docs))
			}
			matrix[term][i]++
		}
	}
	return matrix
}

func tokenize(text string) []string {
	var tokens []string
	for _, word := range tokenSplitRe.Split(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(word) > 2 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// cleanText normalizes whitespace and strips characters outside letters,
// digits and basic punctuation.
func cleanText(text string) string {
	text = disallowedRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func cleanTexts(texts []string) []string {
	cleaned := make([]string, 0, len(texts))
	for _, text := range texts {
		if c := cleanText(text); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return max - min
}
