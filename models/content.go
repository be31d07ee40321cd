// Package models defines the shared data structures for corpus building,
// keyword statistics and SERP analysis.
package models

import "strings"

// HeaderLevels lists the heading levels tracked by the extractor, in order.
var HeaderLevels = []string{"h1", "h2", "h3", "h4"}

// OurDomain is the sentinel domain identifier for the target page inside a
// ContentAnalysis selection set.
const OurDomain = "our"

// PageContent is the structured content extracted from a single page.
// WordCount is always derived from Headers and Texts; call Recount after
// mutating either.
type PageContent struct {
	URL       string              `json:"url,omitempty"`
	Domain    string              `json:"domain,omitempty"`
	Title     string              `json:"title,omitempty"`
	Headers   map[string][]string `json:"headers"`
	Texts     []string            `json:"texts"`
	WordCount int                 `json:"word_count"`
}

// NewPageContent returns an empty PageContent with all header levels present.
func NewPageContent() PageContent {
	headers := make(map[string][]string, len(HeaderLevels))
	for _, level := range HeaderLevels {
		headers[level] = []string{}
	}
	return PageContent{Headers: headers, Texts: []string{}}
}

// Recount recomputes WordCount from the current headers and texts.
func (p *PageContent) Recount() {
	p.WordCount = len(strings.Fields(p.PlainText()))
}

// PlainText joins paragraph texts and header texts into one string.
func (p *PageContent) PlainText() string {
	var sb strings.Builder
	for _, text := range p.Texts {
		sb.WriteString(text)
		sb.WriteString(" ")
	}
	for _, level := range HeaderLevels {
		for _, h := range p.Headers[level] {
			sb.WriteString(h)
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}

// IsEmpty reports whether extraction yielded no words and no headers.
func (p *PageContent) IsEmpty() bool {
	if p.WordCount > 0 {
		return false
	}
	for _, level := range HeaderLevels {
		if len(p.Headers[level]) > 0 {
			return false
		}
	}
	return true
}

// ContentAnalysis is the corpus of extracted contents for one analysis:
// the target page plus its competitors. SelectedDomains controls which
// entries participate in aggregate statistics and may be changed without
// touching the underlying content; the sentinel "our" selects the target.
type ContentAnalysis struct {
	OurDomain       PageContent         `json:"our_domain"`
	Competitors     []PageContent       `json:"competitors"`
	SelectedDomains map[string]struct{} `json:"-"`
}

// SelectAll marks the target and every competitor as selected.
func (c *ContentAnalysis) SelectAll() {
	c.SelectedDomains = make(map[string]struct{}, len(c.Competitors)+1)
	c.SelectedDomains[OurDomain] = struct{}{}
	for _, comp := range c.Competitors {
		c.SelectedDomains[comp.Domain] = struct{}{}
	}
}

// Selected reports whether the given domain participates in aggregates.
// A nil selection set means everything is selected.
func (c *ContentAnalysis) Selected(domain string) bool {
	if c.SelectedDomains == nil {
		return true
	}
	_, ok := c.SelectedDomains[domain]
	return ok
}

// SelectedCompetitors returns the competitors participating in aggregates,
// preserving their order.
func (c *ContentAnalysis) SelectedCompetitors() []PageContent {
	selected := make([]PageContent, 0, len(c.Competitors))
	for _, comp := range c.Competitors {
		if c.Selected(comp.Domain) {
			selected = append(selected, comp)
		}
	}
	return selected
}
