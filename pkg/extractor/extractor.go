// Package extractor turns raw HTML into structured page content:
// validated h1-h4 headers plus paragraph texts.
package extractor

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/seoscope/seoscope/internal/common"
	"github.com/seoscope/seoscope/models"
)

const (
	minHeaderLength    = 3
	maxHeaderLength    = 200
	minParagraphLength = 20
)

// strippedElements are removed before any extraction happens.
const strippedElements = "script, style, noscript, iframe, nav, footer, header, aside, .menu, .navigation, .sidebar"

// navigationPhrases disqualify a header as boilerplate navigation.
var navigationPhrases = []string{"menu", "navigation", "skip", "main content", "search"}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Keep letters, digits, whitespace and basic punctuation across scripts.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,?!()«»“”‘’'-]`)
	letterRe     = regexp.MustCompile(`\p{L}`)
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses HTML into a PageContent. It never fails: malformed input
// degrades to an empty PageContent with zero word count.
func (e *Extractor) Extract(rawURL, html string) models.PageContent {
	content := models.NewPageContent()
	content.URL = rawURL
	content.Domain = common.DomainOf(rawURL)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Extraction panicked, returning empty content", "url", rawURL, "panic", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Warn("Failed to parse HTML", "url", rawURL, "error", err)
		return content
	}

	doc.Find(strippedElements).Remove()

	content.Texts = extractTexts(doc)
	for _, level := range models.HeaderLevels {
		content.Headers[level] = extractHeaders(doc, level)
	}
	content.Title = e.distillTitle(rawURL, html)
	content.Recount()

	return content
}

// extractTexts collects paragraph texts. When no paragraph qualifies it
// falls back to leaf block containers, skipping any container that nests
// another one so text is not double counted.
func extractTexts(doc *goquery.Document) []string {
	texts := []string{}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := CleanText(s.Text())
		if utf8.RuneCountInString(text) >= minParagraphLength {
			texts = append(texts, text)
		}
	})

	if len(texts) == 0 {
		doc.Find("div, article, section, main").Each(func(_ int, s *goquery.Selection) {
			if s.Find("div, article, section, main").Length() > 0 {
				return
			}
			text := CleanText(s.Text())
			if utf8.RuneCountInString(text) >= minParagraphLength {
				texts = append(texts, text)
			}
		})
	}

	return texts
}

func extractHeaders(doc *goquery.Document, level string) []string {
	headers := []string{}

	doc.Find(level).Each(func(_ int, s *goquery.Selection) {
		if isHidden(s) {
			return
		}

		// Nested header tags would duplicate their text into the parent.
		inner := s.Clone()
		inner.Find("h1, h2, h3, h4, h5, h6").Remove()

		text := CleanText(inner.Text())
		if isValidHeader(text) {
			headers = append(headers, text)
		}
	})

	return headers
}

func isHidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	style, _ := s.Attr("style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func isValidHeader(text string) bool {
	length := utf8.RuneCountInString(text)
	if length < minHeaderLength || length > maxHeaderLength {
		return false
	}
	if !letterRe.MatchString(text) {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range navigationPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// CleanText collapses whitespace and strips characters outside letters,
// digits and basic punctuation.
func CleanText(text string) string {
	text = disallowedRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// distillTitle asks readability for the article title. Purely supplemental:
// any failure leaves the title empty.
func (e *Extractor) distillTitle(rawURL, html string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		e.logger.Debug("Readability title distillation failed", "url", rawURL, "error", err)
		return ""
	}
	return CleanText(article.Title)
}
