package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// JsonConfig holds credentials that need to survive between runs.
type JsonConfig struct {
	Spotify struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		TokenType    string    `json:"token_type"`
		Expiry       time.Time `json:"expiry"`
	} `json:"spotify"`
}

// JsonConfigService reads and writes the JSON config file.
type JsonConfigService struct {
	Path       string
	JsonConfig *JsonConfig
}

func NewJsonConfigService(path string) *JsonConfigService {
	return &JsonConfigService{
		Path:       path,
		JsonConfig: &JsonConfig{},
	}
}

// Init loads the config file, creating an empty one if it does not exist.
func (s *JsonConfigService) Init() error {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s.Save()
	} else if err != nil {
		return fmt.Errorf("failed to read json config: %w", err)
	}

	if err := json.Unmarshal(data, s.JsonConfig); err != nil {
		return fmt.Errorf("failed to parse json config: %w", err)
	}

	return nil
}

func (s *JsonConfigService) Get() *JsonConfig {
	return s.JsonConfig
}

func (s *JsonConfigService) Save() error {
	data, err := json.MarshalIndent(s.JsonConfig, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}
