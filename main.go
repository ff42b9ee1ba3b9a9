package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zibbp/applemusic-playlist-sync/applemusic"
	"github.com/zibbp/applemusic-playlist-sync/config"
	"github.com/zibbp/applemusic-playlist-sync/convert"
	"github.com/zibbp/applemusic-playlist-sync/spotify"

	"github.com/urfave/cli/v2"
)

func initialize() (*config.Config, *config.JsonConfigService, *spotify.Service, *applemusic.Service) {
	// initialize config
	c, err := config.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// load json config which has credentials
	jsonConfig := config.NewJsonConfigService(fmt.Sprintf("%s/config.json", c.DataPath))
	err = jsonConfig.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Spotify config")
	}

	// initialize the spotify connection
	spotifyService, err := spotify.Initialize(c.SpotifyClientId, c.SpotifyClientSecret, c.SpotifyRedirectUri, jsonConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Spotify service")
	}

	// authenticate with spotify
	err = spotifyService.Authenticate()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to authenticate with Spotify")
	}

	appleMusicService, err := applemusic.Initialize()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Apple Music service")
	}

	return c, jsonConfig, spotifyService, appleMusicService
}

func main() {
	var saveMissingTracks bool

	app := &cli.App{
		Name:  "applemusic-playlist-sync",
		Usage: "mirror apple music playlists to spotify",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "sync apple music playlists to spotify",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "save-missing-tracks",
						Usage:       "Save tracks that could not be found on Spotify",
						Destination: &saveMissingTracks,
					},
					&cli.StringSliceFlag{
						Name:     "applemusic-playlist-url",
						Aliases:  []string{"apu"},
						Usage:    "List of Apple Music playlist URLs to mirror.",
						Required: true,
					},
				},
				Action: func(cCtx *cli.Context) error {
					c, _, spotifyService, appleMusicService := initialize()

					playlistURLs := cCtx.StringSlice("applemusic-playlist-url")

					convertService, err := convert.Initialize(appleMusicService, spotifyService, c)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to initialize convert service")
					}

					err = convertService.AppleMusicToSpotify(playlistURLs, saveMissingTracks)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to sync Apple Music to Spotify")
					}

					return nil
				},
			},
		},
	}

	debug := os.Getenv("DEBUG")
	if debug == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	container := os.Getenv("CONTAINER")
	if container != "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run app")
	}

}
