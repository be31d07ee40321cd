package detector

import "testing"

func TestDetect(t *testing.T) {
	d := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty falls back to english", "", "en"},
		{"whitespace falls back to english", "   \n ", "en"},
		{"english", "The quick brown fox jumps over the lazy dog near the river bank.", "en"},
		{"ukrainian", "Кава з молоком це найкращий спосіб розпочати ранок у Києві.", "uk"},
		{"russian", "Это предложение написано на русском языке для проверки определения.", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
