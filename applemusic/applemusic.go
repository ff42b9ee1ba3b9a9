package applemusic

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Apple Music playlist pages embed the full playlist payload as JSON inside a
// script tag with this id.
var serverDataRegex = regexp.MustCompile(`(?s)<script[^>]+id="serialized-server-data"[^>]*>(.*?)</script>`)

type Service struct {
	client *http.Client
}

// Track is a normalized Apple Music track. Title has any featuring annotation
// stripped; Artists holds the credited artists followed by featured artists
// extracted from the raw title.
type Track struct {
	Title   string
	Artists []string
}

type Playlist struct {
	ID     string
	URL    string
	Name   string
	Author string
	Tracks []Track
}

// ParseError is returned when a required element is missing from the
// serialized server data of a playlist page.
type ParseError struct {
	URL  string
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("applemusic: playlist %s is missing %q", e.URL, e.Path)
}

func Initialize() (*Service, error) {
	var s Service

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = 10 * time.Second

	s.client = retryClient.StandardClient()

	return &s, nil
}

// GetPlaylist fetches an Apple Music playlist page and parses it into a
// Playlist. Missing metadata elements are a hard failure for the playlist.
func (s *Service) GetPlaylist(playlistURL string) (*Playlist, error) {
	req, err := http.NewRequest(http.MethodGet, playlistURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) applemusic-playlist-sync")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch playlist page: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parsePlaylist(playlistURL, body)
}

func parsePlaylist(playlistURL string, page []byte) (*Playlist, error) {
	match := serverDataRegex.FindSubmatch(page)
	if match == nil {
		return nil, &ParseError{URL: playlistURL, Path: "serialized-server-data"}
	}

	data := string(match[1])

	playlist := Playlist{URL: playlistURL}
	fields := []struct {
		path string
		dest *string
	}{
		{"0.data.seoData.appleContentId", &playlist.ID},
		{"0.data.canonicalURL", &playlist.URL},
		{"0.data.seoData.schemaContent.name", &playlist.Name},
		{"0.data.seoData.schemaContent.author.name", &playlist.Author},
	}
	for _, field := range fields {
		value := gjson.Get(data, field.path)
		if !value.Exists() {
			return nil, &ParseError{URL: playlistURL, Path: field.path}
		}
		*field.dest = value.String()
	}

	items := gjson.Get(data, "0.data.sections.1.items")
	if !items.Exists() {
		return nil, &ParseError{URL: playlistURL, Path: "0.data.sections.1.items"}
	}

	for _, item := range items.Array() {
		title := item.Get("title")
		artistName := item.Get("artistName")
		if !title.Exists() || !artistName.Exists() {
			return nil, &ParseError{URL: playlistURL, Path: "0.data.sections.1.items.title"}
		}

		playlist.Tracks = append(playlist.Tracks, NewTrack(artistName.String(), title.String()))
	}

	log.Debug().Str("platform", "applemusic").Str("playlist_id", playlist.ID).Msgf("parsed playlist %s with %d tracks", playlist.Name, len(playlist.Tracks))

	return &playlist, nil
}
