package applemusic

import (
	"reflect"
	"testing"
)

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		raw      string
		expected []string
	}{
		{"KAROL G", []string{"KAROL G"}},
		{"KAROL G & Nicki Minaj", []string{"KAROL G", "Nicki Minaj"}},
		{"A, B & C", []string{"A", "B", "C"}},
		{"  A ,B&C  ", []string{"A", "B", "C"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		got := SplitArtists(tt.raw)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitArtists(%q) = %v, expected %v", tt.raw, got, tt.expected)
		}
	}
}

func TestExtractFeaturedArtists(t *testing.T) {
	tests := []struct {
		title         string
		expectedTitle string
		expected      []string
	}{
		{"Sunset", "Sunset", nil},
		{"Tusa (feat. Nicki Minaj)", "Tusa", []string{"Nicki Minaj"}},
		{"Congratulations [ft. Quavo]", "Congratulations", []string{"Quavo"}},
		{"Sicko Mode (featuring Drake, Swae Lee)", "Sicko Mode", []string{"Drake", "Swae Lee"}},
		{"Mix (feat. A) (ft. B)", "Mix", []string{"A", "B"}},
		// marker is case-sensitive
		{"Tusa (Feat. Nicki Minaj)", "Tusa (Feat. Nicki Minaj)", nil},
		// no space after the marker
		{"Tusa (feat.Nicki Minaj)", "Tusa (feat.Nicki Minaj)", nil},
		{"  Tusa (feat. Nicki Minaj)  ", "Tusa", []string{"Nicki Minaj"}},
	}

	for _, tt := range tests {
		gotTitle, gotFeatured := ExtractFeaturedArtists(tt.title)
		if gotTitle != tt.expectedTitle {
			t.Errorf("ExtractFeaturedArtists(%q) title = %q, expected %q", tt.title, gotTitle, tt.expectedTitle)
		}
		if !reflect.DeepEqual(gotFeatured, tt.expected) {
			t.Errorf("ExtractFeaturedArtists(%q) featured = %v, expected %v", tt.title, gotFeatured, tt.expected)
		}
	}
}

func TestNewTrack(t *testing.T) {
	tests := []struct {
		name            string
		rawArtistCredit string
		rawTitle        string
		expected        Track
	}{
		{
			name:            "featured artist appended",
			rawArtistCredit: "KAROL G",
			rawTitle:        "Tusa (feat. Nicki Minaj)",
			expected:        Track{Title: "Tusa", Artists: []string{"KAROL G", "Nicki Minaj"}},
		},
		{
			name:            "featured artist already credited",
			rawArtistCredit: "KAROL G & Nicki Minaj",
			rawTitle:        "Tusa (feat. Nicki Minaj)",
			expected:        Track{Title: "Tusa", Artists: []string{"KAROL G", "Nicki Minaj"}},
		},
		{
			name:            "no annotation",
			rawArtistCredit: "Ana",
			rawTitle:        "Sunset",
			expected:        Track{Title: "Sunset", Artists: []string{"Ana"}},
		},
		{
			name:            "duplicate credited artists",
			rawArtistCredit: "Ana & Ana",
			rawTitle:        "Sunset",
			expected:        Track{Title: "Sunset", Artists: []string{"Ana"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTrack(tt.rawArtistCredit, tt.rawTitle)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("NewTrack(%q, %q) = %+v, expected %+v", tt.rawArtistCredit, tt.rawTitle, got, tt.expected)
			}

			// pure function, same input must give same output
			again := NewTrack(tt.rawArtistCredit, tt.rawTitle)
			if !reflect.DeepEqual(got, again) {
				t.Errorf("NewTrack(%q, %q) is not deterministic: %+v != %+v", tt.rawArtistCredit, tt.rawTitle, got, again)
			}
		})
	}
}
