package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestJsonConfigService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	service := NewJsonConfigService(path)
	if err := service.Init(); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	service.JsonConfig.Spotify.AccessToken = "access"
	service.JsonConfig.Spotify.RefreshToken = "refresh"
	service.JsonConfig.Spotify.TokenType = "Bearer"
	service.JsonConfig.Spotify.Expiry = time.Now().Add(time.Hour).Truncate(time.Second)
	if err := service.Save(); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded := NewJsonConfigService(path)
	if err := reloaded.Init(); err != nil {
		t.Fatalf("Init on existing file returned error: %v", err)
	}

	if reloaded.Get().Spotify.RefreshToken != "refresh" {
		t.Errorf("expected refresh token to survive a reload, got %q", reloaded.Get().Spotify.RefreshToken)
	}
	if !reloaded.Get().Spotify.Expiry.Equal(service.JsonConfig.Spotify.Expiry) {
		t.Errorf("expected expiry to survive a reload, got %v", reloaded.Get().Spotify.Expiry)
	}
}
