package rename

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/unclefomotw/better-image-naming/internal/config"
	"github.com/unclefomotw/better-image-naming/internal/imagefile"
	"github.com/unclefomotw/better-image-naming/internal/model"
	"github.com/unclefomotw/better-image-naming/internal/naming"
	"github.com/unclefomotw/better-image-naming/internal/ollama"
)

// fallbackExtension is used when the source file has no extension.
const fallbackExtension = ".jpg"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Describer is the slice of the Ollama client the pipeline needs.
type Describer interface {
	Describe(ctx context.Context, model string, image []byte) (string, error)
}

// Manager runs the rename pipeline for a single request.
//
// The stages execute strictly in order; the first failure aborts the run
// and nothing is written. Progress is reported through the onProgress
// callback so the plain CLI and the TUI render the same events.
type Manager struct {
	settings   *config.Settings
	client     Describer
	onProgress func(ProgressEvent)
}

// NewManager creates a Manager wired to the Ollama host and timeout from
// settings. onProgress may be nil.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		client:     ollama.NewClient(settings.Host, settings.Timeout()),
		onProgress: onProgress,
	}
}

// Run executes the pipeline: resolve input, read metadata, describe the
// image via the vision model, compose the new name, and perform the single
// copy or rename.
//
// On success the returned Result points at the written file. On any error
// no file has been created or moved.
func (m *Manager) Run(ctx context.Context, req *model.Request) (*model.Result, error) {
	path, err := imagefile.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	meta, err := imagefile.ReadMetadata(path)
	if err != nil {
		return nil, err
	}
	if meta.Extension == "" {
		m.progress(ProgressEvent{Message: "File has no extension, assuming " + fallbackExtension, Level: LevelWarning})
		meta.Extension = fallbackExtension
	}

	m.progress(ProgressEvent{Message: "Analyzing image: " + path, Level: LevelInfo})
	m.progress(ProgressEvent{Message: "Using model: " + req.Model, Level: LevelVerbose})

	payload, err := imagefile.LoadPayload(path, m.settings.MaxImageEdge)
	if err != nil {
		return nil, err
	}

	description, err := m.client.Describe(ctx, req.Model, payload)
	if err != nil {
		return nil, err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Model response: %q", description), Level: LevelVerbose})

	words, err := naming.Normalize(description)
	if err != nil {
		return nil, err
	}

	newName := naming.Compose(meta.ModifiedAtUTC, words, meta.Extension)
	newPath := filepath.Join(filepath.Dir(path), newName)

	// The file may already carry its composed name (e.g. a second run in
	// the same second). Treat that as a collision, not a silent success.
	if newPath == path {
		return nil, fmt.Errorf("%w: %s is already the composed name", imagefile.ErrDestinationExists, newName)
	}

	m.progress(ProgressEvent{Message: "New filename: " + newName, Level: LevelInfo})

	if err := imagefile.Write(path, newPath, req.InPlace); err != nil {
		return nil, err
	}

	if req.InPlace {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Renamed: %s -> %s", filepath.Base(path), newName), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Copied: %s -> %s", filepath.Base(path), newName), Level: LevelSuccess})
		m.progress(ProgressEvent{Message: "Original file unchanged: " + path, Level: LevelVerbose})
	}

	return &model.Result{
		NewName: newName,
		NewPath: newPath,
		InPlace: req.InPlace,
	}, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
