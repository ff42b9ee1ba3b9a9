package convert

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xrash/smetrics"

	"github.com/zibbp/applemusic-playlist-sync/applemusic"
	"github.com/zibbp/applemusic-playlist-sync/spotify"
)

// nameMatch reports whether a Spotify track name matches an Apple Music
// title. Featuring annotations are stripped from the candidate name using the
// same grammar applied during ingestion, then the names are compared
// case-insensitively. No further unicode normalization is applied.
func nameMatch(spotifyName string, appleMusicTitle string) bool {
	cleanName, _ := applemusic.ExtractFeaturedArtists(spotifyName)
	return strings.EqualFold(cleanName, appleMusicTitle)
}

// similarity returns a 0-100 score between two track names. Only used to
// report the quality of a fallback match, never to pick one.
func similarity(a string, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	score := 100 - (smetrics.WagnerFischer(a, b, 1, 1, 2) * 100 / maxLen)
	if score < 0 {
		score = 0
	}
	return score
}

// searchQueries builds the search queries attempted for a track, in order.
// The first-artist query is skipped when the track carries no artists at all.
func searchQueries(track applemusic.Track) []string {
	artists := strings.Join(track.Artists, " ")

	queries := []string{
		fmt.Sprintf("track:%s artist:%s", track.Title, artists),
		fmt.Sprintf("%s - %s", track.Title, artists),
	}
	if len(track.Artists) > 0 {
		queries = append(queries, fmt.Sprintf("artist:%s track:%s", track.Artists[0], track.Title))
	}

	return queries
}

// resolveTrack attempts to find the Apple Music track on Spotify. Each query
// is tried in order and its results scanned in rank order for an exact name
// match, which ends the search immediately. If no query produces an exact
// match, the highest-ranked candidate of the first query that returned
// anything is used as a similar match. A nil track without an error means the
// track could not be found at all.
func (s *Service) resolveTrack(track applemusic.Track) (*spotify.Track, error) {
	var fallback *spotify.Track

	for _, query := range searchQueries(track) {
		foundTracks, err := s.SpotifyService.SearchTracks(query, searchLimit)
		if err != nil {
			return nil, err
		}

		for i := range foundTracks {
			if nameMatch(foundTracks[i].Name, track.Title) {
				log.Info().Str("platform", "spotify").Str("query", query).Msgf("found exact match: %s by %s (%s)", foundTracks[i].Name, foundTracks[i].Artist, foundTracks[i].URI)
				return &foundTracks[i], nil
			}
		}

		if len(foundTracks) > 0 && fallback == nil {
			fallback = &foundTracks[0]
		}
	}

	if fallback != nil {
		log.Warn().Str("platform", "spotify").Int("similarity", similarity(fallback.Name, track.Title)).Msgf("found similar match: %s by %s (%s)", fallback.Name, fallback.Artist, fallback.URI)
		return fallback, nil
	}

	log.Warn().Str("platform", "applemusic").Msgf("track could not be found using any of the queries: %s by %s", track.Title, strings.Join(track.Artists, ", "))
	return nil, nil
}

// chunkTracks splits track ids into batches of the given size, preserving
// order across batch boundaries.
func chunkTracks(trackIDs []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(trackIDs); i += size {
		end := i + size
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		chunks = append(chunks, trackIDs[i:end])
	}
	return chunks
}
