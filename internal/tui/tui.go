// Package tui provides the Bubble Tea spinner UI shown while the vision
// model analyzes an image.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/unclefomotw/better-image-naming/internal/model"
	"github.com/unclefomotw/better-image-naming/internal/rename"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)
)

// State represents the current UI state.
type State int

const (
	StateAnalyzing State = iota
	StateComplete
	StateError
)

// LogEntry represents a progress message in the UI.
type LogEntry struct {
	Message string
	Level   rename.ProgressLevel
}

// Message types
type (
	// ProgressMsg is sent for each pipeline progress event.
	ProgressMsg struct {
		Event rename.ProgressEvent
	}

	// DoneMsg is sent when the rename run finishes.
	DoneMsg struct {
		Result *model.Result
		Err    error
	}
)

// Model is the Bubble Tea model for a single rename run.
type Model struct {
	state   State
	spinner spinner.Model
	logs    []LogEntry
	verbose bool

	imagePath string
	modelName string

	result *model.Result
	err    error

	cancel context.CancelFunc
}

// NewModel creates a TUI model for renaming imagePath with modelName.
// cancel is invoked when the user interrupts the run.
func NewModel(imagePath, modelName string, verbose bool, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	return Model{
		state:     StateAnalyzing,
		spinner:   sp,
		imagePath: imagePath,
		modelName: modelName,
		verbose:   verbose,
		cancel:    cancel,
	}
}

// Err returns the pipeline error, if the run failed.
func (m Model) Err() error {
	return m.err
}

// Result returns the rename result, if the run succeeded.
func (m Model) Result() *model.Result {
	return m.result
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			if m.state == StateAnalyzing {
				m.state = StateError
				m.err = context.Canceled
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Event.Level == rename.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case DoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.state = StateError
		} else {
			m.state = StateComplete
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	s := titleStyle.Render("imgname") + "\n"

	for _, entry := range m.logs {
		s += renderLog(entry) + "\n"
	}

	switch m.state {
	case StateAnalyzing:
		s += m.spinner.View() + infoStyle.Render("Analyzing image with "+m.modelName+"...") + "\n"
		s += dimStyle.Render("esc to cancel") + "\n"

	case StateComplete:
		s += resultStyle.Render(successStyle.Render(m.result.NewName)) + "\n"

	case StateError:
		s += errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	return s
}

func renderLog(entry LogEntry) string {
	switch entry.Level {
	case rename.LevelError:
		return errorStyle.Render(entry.Message)
	case rename.LevelWarning:
		return warningStyle.Render(entry.Message)
	case rename.LevelSuccess:
		return successStyle.Render(entry.Message)
	case rename.LevelVerbose:
		return dimStyle.Render(entry.Message)
	default:
		return infoStyle.Render(entry.Message)
	}
}
