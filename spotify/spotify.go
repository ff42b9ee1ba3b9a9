package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	libSpotify "github.com/zmb3/spotify/v2"
	spotifyAuth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/zibbp/applemusic-playlist-sync/config"
)

type Service struct {
	auth     *spotifyAuth.Authenticator
	client   *libSpotify.Client
	config   *config.JsonConfigService
	limiter  *rate.Limiter
	redirect *url.URL
	userID   string
}

// Playlist is the subset of a Spotify playlist the sync needs.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	URI         string `json:"uri"`
}

// Track is the subset of a Spotify track the sync needs. Artist is the
// primary (first listed) artist.
type Track struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

func Initialize(clientId, clientSecret, redirectUri string, jsonConfig *config.JsonConfigService) (*Service, error) {
	var s Service

	redirect, err := url.Parse(redirectUri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redirect uri: %w", err)
	}

	s.auth = spotifyAuth.New(
		spotifyAuth.WithClientID(clientId),
		spotifyAuth.WithClientSecret(clientSecret),
		spotifyAuth.WithRedirectURL(redirectUri),
		spotifyAuth.WithScopes(
			spotifyAuth.ScopePlaylistReadPrivate,
			spotifyAuth.ScopePlaylistModifyPrivate,
			spotifyAuth.ScopePlaylistModifyPublic,
		),
	)
	s.config = jsonConfig
	s.redirect = redirect
	// keep track searches under the API rate limit
	s.limiter = rate.NewLimiter(rate.Every(250*time.Millisecond), 1)

	return &s, nil
}

// Authenticate creates an authenticated Spotify client. A token stored in the
// json config is reused (and refreshed) when present, otherwise a one-time
// interactive authorization is performed and the token persisted.
func (s *Service) Authenticate() error {
	ctx := context.Background()

	saved := s.config.Get().Spotify

	var token *oauth2.Token
	if saved.RefreshToken != "" {
		log.Debug().Msg("Spotify token found")
		token = &oauth2.Token{
			AccessToken:  saved.AccessToken,
			RefreshToken: saved.RefreshToken,
			TokenType:    saved.TokenType,
			Expiry:       saved.Expiry,
		}
	} else {
		log.Debug().Msg("No Spotify token found")
		promptedToken, err := s.promptForToken(ctx)
		if err != nil {
			return err
		}
		token = promptedToken
	}

	s.client = libSpotify.New(s.auth.Client(ctx, token), libSpotify.WithRetry(true))

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s.userID = user.ID

	// the token may have been refreshed, persist the current one
	currentToken, err := s.client.Token()
	if err != nil {
		return err
	}
	s.config.JsonConfig.Spotify.AccessToken = currentToken.AccessToken
	s.config.JsonConfig.Spotify.RefreshToken = currentToken.RefreshToken
	s.config.JsonConfig.Spotify.TokenType = currentToken.TokenType
	s.config.JsonConfig.Spotify.Expiry = currentToken.Expiry
	if err := s.config.Save(); err != nil {
		return err
	}

	log.Debug().Str("platform", "spotify").Msgf("authenticated as %s", s.userID)

	return nil
}

// promptForToken runs a local callback server on the redirect URI and waits
// for the user to complete the authorization flow in a browser.
func (s *Service) promptForToken(ctx context.Context) (*oauth2.Token, error) {
	state := fmt.Sprintf("applemusic-playlist-sync-%d", time.Now().UnixNano())

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(s.redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		token, err := s.auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			errCh <- err
			return
		}
		fmt.Fprintln(w, "Authentication complete. You can close this tab.")
		tokenCh <- token
	})

	server := &http.Server{Addr: s.redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer server.Shutdown(ctx)

	log.Info().Msgf("Please visit the following URL to authorize this application: %s", s.auth.AuthURL(state))

	select {
	case token := <-tokenCh:
		return token, nil
	case err := <-errCh:
		return nil, err
	}
}

func (s *Service) CurrentUserID() (string, error) {
	if s.userID == "" {
		return "", fmt.Errorf("not authenticated")
	}
	return s.userID, nil
}

// GetUserPlaylists returns all playlists followed by the current user.
func (s *Service) GetUserPlaylists() ([]Playlist, error) {
	ctx := context.Background()

	page, err := s.client.CurrentUsersPlaylists(ctx, libSpotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("failed to get user playlists: %w", err)
	}

	var playlists []Playlist
	for {
		for _, item := range page.Playlists {
			// the simplified playlist object lacks the description, which
			// the sync matches on
			full, err := s.client.GetPlaylist(ctx, item.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get playlist %s: %w", item.ID, err)
			}

			playlist := toPlaylist(item)
			playlist.Description = full.Description
			playlists = append(playlists, playlist)
		}

		err = s.client.NextPage(ctx, page)
		if err == libSpotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

// CreatePlaylist creates a non-public playlist for the current user.
func (s *Service) CreatePlaylist(name string, description string) (*Playlist, error) {
	ctx := context.Background()

	userID, err := s.CurrentUserID()
	if err != nil {
		return nil, err
	}

	created, err := s.client.CreatePlaylistForUser(ctx, userID, name, description, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	playlist := toPlaylist(created.SimplePlaylist)
	playlist.Description = created.Description

	return &playlist, nil
}

func (s *Service) UnfollowPlaylist(id string) error {
	ctx := context.Background()
	return s.client.UnfollowPlaylist(ctx, libSpotify.ID(id))
}

// SearchTracks performs a full-text track search and returns the candidates
// in rank order.
func (s *Service) SearchTracks(query string, limit int) ([]Track, error) {
	ctx := context.Background()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := s.client.Search(ctx, query, libSpotify.SearchTypeTrack, libSpotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}

	var tracks []Track
	if result.Tracks != nil {
		for _, item := range result.Tracks.Tracks {
			track := Track{
				ID:   string(item.ID),
				URI:  string(item.URI),
				Name: item.Name,
			}
			if len(item.Artists) > 0 {
				track.Artist = item.Artists[0].Name
			}
			tracks = append(tracks, track)
		}
	}

	return tracks, nil
}

// ClearPlaylistTracks removes every track from the playlist.
func (s *Service) ClearPlaylistTracks(id string) error {
	ctx := context.Background()
	return s.client.ReplacePlaylistTracks(ctx, libSpotify.ID(id))
}

// AddTracksToPlaylist appends tracks to the playlist. The caller must chunk
// to the API maximum of 100 tracks per call.
func (s *Service) AddTracksToPlaylist(id string, trackIDs []string) error {
	ctx := context.Background()

	ids := make([]libSpotify.ID, 0, len(trackIDs))
	for _, trackID := range trackIDs {
		ids = append(ids, libSpotify.ID(trackID))
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, libSpotify.ID(id), ids...); err != nil {
		return fmt.Errorf("failed to add tracks to playlist: %w", err)
	}

	return nil
}

func toPlaylist(item libSpotify.SimplePlaylist) Playlist {
	return Playlist{
		ID:      string(item.ID),
		Name:    item.Name,
		OwnerID: item.Owner.ID,
		URI:     string(item.URI),
	}
}
