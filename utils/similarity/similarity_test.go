package similarity

import (
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  THE   matrix ", "the matrix"},
		{"Amélie", "amelie"},
		{"Léon: The Professional", "leon the professional"},
		{"Fast & Furious", "fast and furious"},
		{"Spider-Man", "spider man"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{"case insensitive", "The Dark Knight", "dark knight", true},
		{"accent insensitive", "Amélie", "amelie", true},
		{"accented query", "Amelie", "AMÉLIE", true},
		{"middle of description", "A thief who steals corporate secrets", "corporate", true},
		{"no match", "The Matrix", "inception", false},
		{"empty needle", "The Matrix", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.haystack, tt.needle); got != tt.want {
				t.Fatalf("Contains(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}

func TestScoreOrdering(t *testing.T) {
	exact := Score("heat", "Heat")
	prefix := Score("dark", "Dark City")
	word := Score("knight", "The Dark Knight")
	inner := Score("atri", "The Matrix")
	unrelated := Score("matrix", "Pulp Fiction")

	if exact != 1 {
		t.Fatalf("expected exact match to score 1, got %f", exact)
	}
	if !(exact > prefix && prefix > word && word > inner && inner > unrelated) {
		t.Fatalf("unexpected ordering: exact=%f prefix=%f word=%f inner=%f unrelated=%f", exact, prefix, word, inner, unrelated)
	}
}

func TestScoreEmpty(t *testing.T) {
	if Score("", "The Matrix") != 0 || Score("matrix", "") != 0 {
		t.Fatalf("expected empty inputs to score 0")
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
