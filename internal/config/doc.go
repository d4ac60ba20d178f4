// Package config provides configuration management for imgname.
//
// This package handles:
//   - Loading and saving settings from a JSON file
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get the stock local-Ollama setup:
//
//	settings := config.DefaultSettings()
//	// Host http://localhost:11434, model gemma3:4b,
//	// 60s inference timeout, payloads downscaled to 1024px
//
// # Loading from File
//
//	settings, err := config.Load("~/.config/imgname/config.json")
//	// Missing file returns defaults, not an error
//
// Command-line flags always override whatever was loaded.
package config
