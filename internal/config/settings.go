package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/unclefomotw/better-image-naming/internal/ollama"
)

// Settings holds all configuration options.
//
// Every field has a sensible default, so the tool works without any config
// file; a file only overrides the defaults for the flags the user is tired
// of typing. Command-line flags in turn override the file.
type Settings struct {
	// Host is the base URL of the Ollama service.
	Host string `json:"host"`

	// Model is the default vision model tag.
	Model string `json:"model"`

	// TimeoutSeconds bounds the inference request. Zero means the
	// built-in 60 second default, never "wait forever".
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxImageEdge is the longest edge (pixels) of the payload sent to
	// the model; larger images are downscaled before upload. Zero or
	// negative disables scaling and sends the file bytes unchanged.
	MaxImageEdge int `json:"max_image_edge"`

	// Plain disables the interactive spinner UI.
	Plain bool `json:"plain"`

	// Verbose shows per-stage progress messages.
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Host:           ollama.DefaultHost,
		Model:          ollama.DefaultModel,
		TimeoutSeconds: int(ollama.DefaultTimeout / time.Second),
		MaxImageEdge:   1024,
	}
}

// Timeout returns the inference timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return ollama.DefaultTimeout
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads settings from a JSON file. A missing file is not an error:
// defaults are returned so a fresh install needs no setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
