package applemusic

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const playlistServerData = `[{"data":{"canonicalURL":"https://music.apple.com/us/playlist/chill/pl.abc123","seoData":{"appleContentId":"pl.abc123","schemaContent":{"name":"Chill","author":{"name":"Apple Music"}}},"sections":[{"items":[]},{"items":[{"title":"Tusa (feat. Nicki Minaj)","artistName":"KAROL G"},{"title":"Sunset","artistName":"Ana"}]}]}}]`

func playlistPage(serverData string) string {
	return fmt.Sprintf(`<html><head><title>Chill</title></head><body>
<script type="application/json" id="serialized-server-data">%s</script>
</body></html>`, serverData)
}

func TestParsePlaylist(t *testing.T) {
	playlist, err := parsePlaylist("https://music.apple.com/us/playlist/chill/pl.abc123", []byte(playlistPage(playlistServerData)))
	if err != nil {
		t.Fatalf("parsePlaylist returned error: %v", err)
	}

	if playlist.ID != "pl.abc123" {
		t.Errorf("expected id pl.abc123, got %q", playlist.ID)
	}
	if playlist.URL != "https://music.apple.com/us/playlist/chill/pl.abc123" {
		t.Errorf("unexpected url %q", playlist.URL)
	}
	if playlist.Name != "Chill" {
		t.Errorf("expected name Chill, got %q", playlist.Name)
	}
	if playlist.Author != "Apple Music" {
		t.Errorf("expected author Apple Music, got %q", playlist.Author)
	}
	if len(playlist.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(playlist.Tracks))
	}

	if playlist.Tracks[0].Title != "Tusa" {
		t.Errorf("expected normalized title Tusa, got %q", playlist.Tracks[0].Title)
	}
	if len(playlist.Tracks[0].Artists) != 2 || playlist.Tracks[0].Artists[1] != "Nicki Minaj" {
		t.Errorf("expected featured artist appended, got %v", playlist.Tracks[0].Artists)
	}
}

func TestParsePlaylistMissingData(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no server data", `<html><body>nothing here</body></html>`},
		{"missing playlist id", playlistPage(`[{"data":{"canonicalURL":"https://example.com","seoData":{"schemaContent":{"name":"Chill","author":{"name":"a"}}},"sections":[{},{"items":[]}]}}]`)},
		{"missing track title", playlistPage(`[{"data":{"canonicalURL":"https://example.com","seoData":{"appleContentId":"pl.1","schemaContent":{"name":"Chill","author":{"name":"a"}}},"sections":[{},{"items":[{"artistName":"Ana"}]}]}}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePlaylist("https://example.com", []byte(tt.page))
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestGetPlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, playlistPage(playlistServerData))
	}))
	defer server.Close()

	service, err := Initialize()
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	playlist, err := service.GetPlaylist(server.URL)
	if err != nil {
		t.Fatalf("GetPlaylist returned error: %v", err)
	}

	if playlist.ID != "pl.abc123" {
		t.Errorf("expected id pl.abc123, got %q", playlist.ID)
	}
	if len(playlist.Tracks) != 2 {
		t.Errorf("expected 2 tracks, got %d", len(playlist.Tracks))
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	service, err := Initialize()
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if _, err := service.GetPlaylist(server.URL); err == nil {
		t.Fatal("expected error, got nil")
	}
}
