package services

import "testing"

func TestNormalizeText(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Wild Mountain Honey", want: "wild mountain honey"},
		{name: "strips punctuation", in: "Don't Stop Me Now!", want: "dont stop me now"},
		{name: "collapses whitespace", in: "  too   many    spaces ", want: "too many spaces"},
		{name: "keeps digits", in: "Track 42", want: "track 42"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		if got := Similarity("honey", "honey"); got != 1.0 {
			t.Errorf("expected 1.0, got %f", got)
		}
	})

	t.Run("both empty", func(t *testing.T) {
		if got := Similarity("", ""); got != 1.0 {
			t.Errorf("expected 1.0, got %f", got)
		}
	})

	t.Run("completely different", func(t *testing.T) {
		if got := Similarity("abc", "xyz"); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
	})

	t.Run("ratio relative to longer string", func(t *testing.T) {
		// one substitution over length 4
		if got := Similarity("honk", "hone"); got != 0.75 {
			t.Errorf("expected 0.75, got %f", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		if Similarity("mountain", "fountain") != Similarity("fountain", "mountain") {
			t.Error("similarity should not depend on argument order")
		}
	})

	t.Run("multibyte runes count once", func(t *testing.T) {
		// one substitution over 4 runes, not 5 bytes
		if got := Similarity("café", "cafe"); got != 0.75 {
			t.Errorf("expected 0.75, got %f", got)
		}
	})

	t.Run("identical accented strings", func(t *testing.T) {
		if got := Similarity("beyoncé", "beyoncé"); got != 1.0 {
			t.Errorf("expected 1.0, got %f", got)
		}
	})
}

func TestIsGoodMatch(t *testing.T) {
	tc := []struct {
		name                      string
		hitTitle, hitArtist       string
		searchTitle, searchArtist string
		want                      bool
	}{
		{
			name:     "exact match",
			hitTitle: "Wild Mountain Honey", hitArtist: "Steve Miller Band",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: true,
		},
		{
			name:     "case and punctuation differences",
			hitTitle: "Wild Mountain Honey", hitArtist: "Steve Miller Band",
			searchTitle: "wild mountain honey", searchArtist: "steve miller band!",
			want: true,
		},
		{
			name:     "title containment",
			hitTitle: "Wild Mountain Honey (Live)", hitArtist: "Steve Miller Band",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: true,
		},
		{
			name:     "right title wrong artist",
			hitTitle: "Wild Mountain Honey", hitArtist: "Some Cover Band",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: false,
		},
		{
			name:     "right artist wrong title",
			hitTitle: "The Joker", hitArtist: "Steve Miller Band",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: false,
		},
		{
			name:     "near-miss title passes on similarity",
			hitTitle: "Wild Mountan Honey", hitArtist: "Steve Miller Band",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: true,
		},
		{
			name:     "unrelated everything",
			hitTitle: "Bohemian Rhapsody", hitArtist: "Queen",
			searchTitle: "Wild Mountain Honey", searchArtist: "Steve Miller Band",
			want: false,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := IsGoodMatch(tt.hitTitle, tt.hitArtist, tt.searchTitle, tt.searchArtist)
			if got != tt.want {
				t.Errorf("IsGoodMatch(%q, %q, %q, %q) = %v, want %v",
					tt.hitTitle, tt.hitArtist, tt.searchTitle, tt.searchArtist, got, tt.want)
			}
		})
	}
}
