package serp

import (
	"math"
	"unicode/utf8"

	"github.com/seoscope/seoscope/models"
)

// Component weights of the difficulty heuristic. Kept exactly as tuned in
// production; no ground truth exists to revalidate them.
const (
	domainAuthorityWeight = 0.4
	contentQualityWeight  = 0.3
	competitionWeight     = 0.3
)

// Difficulty derives a 0-100 keyword difficulty score from the raw SERP
// result rows. An empty result set scores exactly 0.
func Difficulty(results []models.SerpResultRow) int {
	if len(results) == 0 {
		return 0
	}

	score := domainAuthorityWeight*domainAuthorityScore(results) +
		contentQualityWeight*contentQualityScore(results) +
		competitionWeight*competitionScore(results)

	final := int(math.Round(score * 100))
	if final < 0 {
		return 0
	}
	if final > 100 {
		return 100
	}
	return final
}

// domainAuthorityScore weighs each result's link count (capped at 1000) by
// its rank: rank 0 weighs 10, declining by one per position, normalized
// by 55 (the weight sum over a full page of ten).
func domainAuthorityScore(results []models.SerpResultRow) float64 {
	var score float64
	for index, result := range results {
		positionWeight := float64(10 - index)
		linkScore := math.Min(float64(result.LinksCount)/1000, 1)
		score += linkScore * positionWeight / 55
	}
	return score
}

// contentQualityScore rewards results whose title and description fall in
// the SEO-optimal length windows; everything else counts half. Lengths are
// counted in runes so Cyrillic snippets are not measured at twice their size.
func contentQualityScore(results []models.SerpResultRow) float64 {
	var score float64
	for _, result := range results {
		titleLen := utf8.RuneCountInString(result.Title)
		descLen := utf8.RuneCountInString(result.Description)
		if titleLen >= 50 && titleLen <= 60 && descLen >= 120 && descLen <= 160 {
			score += 1.0
		} else {
			score += 0.5
		}
	}
	return score / float64(len(results))
}

// competitionScore counts paid-traffic presence and strong estimated
// traffic value as half a point each per result.
func competitionScore(results []models.SerpResultRow) float64 {
	var score float64
	for _, result := range results {
		if result.EstimatedPaidTrafficCost > 0 {
			score += 0.5
		}
		if result.ETV > 1000 {
			score += 0.5
		}
	}
	return score / float64(len(results))
}
