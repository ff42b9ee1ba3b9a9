package spotify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zibbp/applemusic-playlist-sync/applemusic"
)

type MissingTracks struct {
	Playlist applemusic.Playlist `json:"playlist"`
	Tracks   []applemusic.Track  `json:"tracks"`
}

// WriteMissingTracks writes Apple Music tracks that could not be resolved on
// Spotify to disk.
func WriteMissingTracks(dataPath string, filename string, missingTracks MissingTracks) error {
	if err := os.MkdirAll(dataPath+"/missing", 0755); err != nil {
		return err
	}
	json, err := json.Marshal(missingTracks)
	if err != nil {
		return err
	}
	return os.WriteFile(fmt.Sprintf(dataPath+"/missing/%s.json", filename), json, 0644)
}
