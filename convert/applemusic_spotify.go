package convert

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zibbp/applemusic-playlist-sync/applemusic"
	"github.com/zibbp/applemusic-playlist-sync/config"
	"github.com/zibbp/applemusic-playlist-sync/spotify"
)

const (
	// maximum number of results requested per track search query
	searchLimit = 5
	// maximum number of tracks the Spotify API accepts per add call
	addTracksLimit = 100
	// maximum number of playlist creations before giving up on a playlist
	// whose description will not persist
	maxCreateAttempts = 10

	descriptionFormat = "AppleMusic mirror playlist. ID: %s"
)

type AppleMusicClient interface {
	GetPlaylist(playlistURL string) (*applemusic.Playlist, error)
}

type SpotifyClient interface {
	GetUserPlaylists() ([]spotify.Playlist, error)
	CreatePlaylist(name string, description string) (*spotify.Playlist, error)
	UnfollowPlaylist(id string) error
	SearchTracks(query string, limit int) ([]spotify.Track, error)
	ClearPlaylistTracks(id string) error
	AddTracksToPlaylist(id string, trackIDs []string) error
}

var (
	_ AppleMusicClient = (*applemusic.Service)(nil)
	_ SpotifyClient    = (*spotify.Service)(nil)
)

// RetryLimitError is returned when a Spotify playlist description could not
// be persisted within maxCreateAttempts creations.
type RetryLimitError struct {
	PlaylistName string
	Attempts     int
}

func (e *RetryLimitError) Error() string {
	return fmt.Sprintf("playlist description for %q could not be set after %d attempts", e.PlaylistName, e.Attempts)
}

type Service struct {
	AppleMusicService AppleMusicClient
	SpotifyService    SpotifyClient
	Config            *config.Config
}

func Initialize(appleMusicService AppleMusicClient, spotifyService SpotifyClient, c *config.Config) (*Service, error) {
	var s Service
	s.AppleMusicService = appleMusicService
	s.SpotifyService = spotifyService
	s.Config = c

	return &s, nil
}

// AppleMusicToSpotify mirrors the configured Apple Music playlists onto
// Spotify: existing mirror playlists are matched by the playlist id embedded
// in their description, missing ones are created, then every playlist's
// contents are replaced with the resolved tracks in source order.
func (s *Service) AppleMusicToSpotify(playlistURLs []string, saveMissingTracks bool) error {
	log.Info().Msg("Starting Apple Music to Spotify sync")

	// load apple music playlists in the configured order
	var appleMusicPlaylists []*applemusic.Playlist
	for _, playlistURL := range playlistURLs {
		playlist, err := s.AppleMusicService.GetPlaylist(playlistURL)
		if err != nil {
			return err
		}

		log.Info().Str("platform", "applemusic").Str("playlist_id", playlist.ID).Msgf("loaded playlist '%s' with %d tracks", playlist.Name, len(playlist.Tracks))
		appleMusicPlaylists = append(appleMusicPlaylists, playlist)
	}

	spotifyPlaylists, err := s.SpotifyService.GetUserPlaylists()
	if err != nil {
		return err
	}

	log.Info().Str("platform", "spotify").Msgf("fetched %d Spotify playlists", len(spotifyPlaylists))

	// match existing spotify playlists to their apple music counterparts
	matches := make(map[string]spotify.Playlist)
	for _, spotifyPlaylist := range spotifyPlaylists {
		// skip any playlists owned by spotify directly
		if spotifyPlaylist.OwnerID == "spotify" {
			continue
		}

		// match the first unmatched apple music playlist whose id is in the
		// description
		for _, appleMusicPlaylist := range appleMusicPlaylists {
			if _, ok := matches[appleMusicPlaylist.ID]; ok {
				continue
			}
			if strings.Contains(spotifyPlaylist.Description, fmt.Sprintf("ID: %s", appleMusicPlaylist.ID)) {
				matches[appleMusicPlaylist.ID] = spotifyPlaylist
				break
			}
		}
	}

	// create spotify playlists for unmatched apple music playlists
	for _, appleMusicPlaylist := range appleMusicPlaylists {
		if matched, ok := matches[appleMusicPlaylist.ID]; ok {
			log.Info().Msgf("Spotify playlist for '%s' already exists: %s", appleMusicPlaylist.Name, matched.URI)
			continue
		}

		log.Info().Msgf("Creating new playlist for '%s'", appleMusicPlaylist.Name)
		created, err := s.createMirrorPlaylist(appleMusicPlaylist)
		if err != nil {
			return err
		}

		matches[appleMusicPlaylist.ID] = *created
		log.Info().Msgf("New Spotify playlist for '%s' created: %s", appleMusicPlaylist.Name, created.URI)
	}

	log.Info().Msg("Matched all playlists")

	// find and add tracks to each playlist
	for _, appleMusicPlaylist := range appleMusicPlaylists {
		spotifyPlaylist := matches[appleMusicPlaylist.ID]

		log.Info().Str("platform", "applemusic").Msgf("collecting tracks for '%s'", appleMusicPlaylist.Name)

		var trackIDs []string
		var missingTracks []applemusic.Track
		for _, track := range appleMusicPlaylist.Tracks {
			foundTrack, err := s.resolveTrack(track)
			if err != nil {
				return err
			}

			if foundTrack == nil {
				missingTracks = append(missingTracks, track)
				continue
			}

			trackIDs = append(trackIDs, foundTrack.ID)
		}

		// fully replace the playlist contents with the resolved tracks
		log.Info().Str("spotify_playlist_id", spotifyPlaylist.ID).Msgf("adding %d tracks", len(trackIDs))
		if err := s.SpotifyService.ClearPlaylistTracks(spotifyPlaylist.ID); err != nil {
			return err
		}
		for _, chunk := range chunkTracks(trackIDs, addTracksLimit) {
			if err := s.SpotifyService.AddTracksToPlaylist(spotifyPlaylist.ID, chunk); err != nil {
				return err
			}
		}

		if saveMissingTracks && len(missingTracks) > 0 {
			log.Info().Str("applemusic_playlist", appleMusicPlaylist.Name).Msgf("processing complete - found %d missing tracks", len(missingTracks))
			err := spotify.WriteMissingTracks(s.Config.DataPath, appleMusicPlaylist.ID, spotify.MissingTracks{
				Playlist: *appleMusicPlaylist,
				Tracks:   missingTracks,
			})
			if err != nil {
				return err
			}
		}
	}

	log.Info().Msg("Sync complete")

	return nil
}

// createMirrorPlaylist creates the Spotify playlist mirroring an Apple Music
// playlist. Spotify sometimes silently drops the requested description, which
// would break re-matching on the next run, so the created playlist is
// verified and recreated until the description sticks.
func (s *Service) createMirrorPlaylist(appleMusicPlaylist *applemusic.Playlist) (*spotify.Playlist, error) {
	description := fmt.Sprintf(descriptionFormat, appleMusicPlaylist.ID)

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		created, err := s.SpotifyService.CreatePlaylist(appleMusicPlaylist.Name, description)
		if err != nil {
			return nil, err
		}

		if created.Description == description {
			return created, nil
		}

		log.Warn().Str("spotify_playlist_id", created.ID).Msgf("attempt %d failed - removing bugged playlist", attempt)
		if err := s.SpotifyService.UnfollowPlaylist(created.ID); err != nil {
			return nil, err
		}
	}

	return nil, &RetryLimitError{PlaylistName: appleMusicPlaylist.Name, Attempts: maxCreateAttempts}
}
