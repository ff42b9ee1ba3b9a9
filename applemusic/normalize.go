package applemusic

import (
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// featuredRegex matches a featuring annotation inside a track title, e.g.
// "(feat. Nicki Minaj)" or "[ft. Quavo]". The same regexp is used to pull the
// featured artists out of the title and to remove the annotation from it, so
// both sides always agree on what counts as an annotation.
var featuredRegex = regexp.MustCompile(`[(\[](?:feat\.|ft\.|featuring) ([^()\[\]]*)[)\]]`)

// SplitArtists splits a raw artist credit like "KAROL G, Shakira & Ozuna" into
// the individual artist names. Pieces are trimmed and returned in their
// original order.
func SplitArtists(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, "&", ","), ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// ExtractFeaturedArtists removes every featuring annotation from a track title
// and returns the cleaned title along with the artists named inside the
// annotations, in order of appearance.
func ExtractFeaturedArtists(title string) (string, []string) {
	var featured []string
	for _, match := range featuredRegex.FindAllStringSubmatch(title, -1) {
		featured = append(featured, SplitArtists(match[1])...)
	}

	cleanTitle := strings.TrimSpace(featuredRegex.ReplaceAllString(title, ""))

	return cleanTitle, featured
}

// NewTrack builds a Track from the raw artist credit and title of an Apple
// Music track record. Featured artists found in the title are appended to the
// credited artists, keeping the first occurrence of any duplicate name.
func NewTrack(rawArtistCredit string, rawTitle string) Track {
	cleanTitle, featured := ExtractFeaturedArtists(rawTitle)

	var artists []string
	for _, artist := range append(SplitArtists(rawArtistCredit), featured...) {
		if slices.Contains(artists, artist) {
			continue
		}
		artists = append(artists, artist)
	}

	return Track{
		Title:   cleanTitle,
		Artists: artists,
	}
}
