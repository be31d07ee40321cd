package common

import "testing"

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))

	if a != b {
		t.Error("same input produced different hashes")
	}
	if a == c {
		t.Error("different inputs produced the same hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHashJSON(t *testing.T) {
	type payload struct {
		Name  string
		Count int
	}

	a, err := HashJSON(payload{Name: "espresso", Count: 3})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	b, err := HashJSON(payload{Name: "espresso", Count: 3})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	if a != b {
		t.Error("equal values produced different hashes")
	}

	c, err := HashJSON(payload{Name: "espresso", Count: 4})
	if err != nil {
		t.Fatalf("HashJSON() error = %v", err)
	}
	if a == c {
		t.Error("different values produced the same hash")
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "https://example.com", "https://example.com"},
		{"whitespace", "  https://example.com  ", "https://example.com"},
		{"trailing comma", "https://example.com,", "https://example.com"},
		{"wrapped in parens", "(https://example.com)", "https://example.com"},
		{"quoted", "\"https://example.com\"", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com/page", "example.com"},
		{"www stripped", "https://www.example.com", "example.com"},
		{"with port", "https://example.com:8080/page", "example.com"},
		{"unparseable", "not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DomainOf(tt.in); got != tt.want {
				t.Errorf("DomainOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"https", "https://example.com", true},
		{"http", "http://example.com/path?q=1", true},
		{"ftp rejected", "ftp://example.com", false},
		{"no host", "https://", false},
		{"embedded space", "https://example.com/a b", false},
		{"relative", "/just/a/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateURL(tt.in); got != tt.want {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
