// Package common holds small helpers shared by the fetch and analysis layers.
package common

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ContentHash computes the SHA256 hash of content and returns a hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// HashJSON marshals v (encoding/json emits struct fields in declaration
// order and sorts map keys, which is stable enough for staleness checks)
// and hashes the result.
func HashJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal for hashing: %w", err)
	}
	return ContentHash(data), nil
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste
// issues: surrounding whitespace, trailing punctuation and wrapping brackets.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	trailing := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailing {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leading := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leading {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// DomainOf returns the hostname of a URL without a www prefix, or the input
// unchanged if it does not parse.
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// ValidateURL reports whether a sanitized URL is a plausible http(s) URL.
func ValidateURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" || strings.Contains(rawURL, " ") {
		return false
	}
	return !strings.ContainsAny(parsed.Host, "{}[]<>\"'")
}
