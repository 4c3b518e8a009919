// Package tui provides a Bubble Tea terminal user interface for
// universally-acclaimed.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/universally-acclaimed/internal/acclaim"
	"github.com/handiism/universally-acclaimed/internal/collect"
	"github.com/handiism/universally-acclaimed/internal/config"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCC33")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
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

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	genreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateSetup State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   collect.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	result    acclaim.Result
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	pipeline *acclaim.Pipeline
	events   chan collect.ProgressEvent
	counters collect.Progress
	// runID tells messages of the current run from those of earlier ones.
	runID int

	// Options
	refresh bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model seeded from settings.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "."
	ti.SetValue(settings.OutputDir)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC33"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateSetup,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		refresh:   settings.Refresh,
		verbose:   strings.EqualFold(settings.LogLevel, "debug"),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one pipeline progress event.
	ProgressMsg struct {
		RunID int
		Event collect.ProgressEvent
	}

	// RunDoneMsg is sent when the pipeline finishes.
	RunDoneMsg struct {
		RunID  int
		Result acclaim.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateSetup {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateSetup {
				return m.start()
			}

		case "ctrl+r":
			if m.state == StateSetup {
				m.refresh = !m.refresh
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateSetup {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateSetup
				m.logs = nil
				m.err = nil
				m.result = acclaim.Result{}
				m.counters = collect.Progress{}
				m.pipeline = nil
				m.events = nil
				m.runID++
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.RunID != m.runID {
			break
		}
		cmds = append(cmds, waitForEvent(m.runID, m.events))
		if msg.Event.Level == collect.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case RunDoneMsg:
		if msg.RunID != m.runID {
			break
		}
		if m.pipeline != nil {
			m.counters = m.pipeline.Progress()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.result = msg.Result
		}

	case TickMsg:
		if m.pipeline != nil && m.state == StateRunning {
			m.counters = m.pipeline.Progress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateSetup {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start builds the pipeline from the setup screen and launches it.
func (m Model) start() (tea.Model, tea.Cmd) {
	settings := *m.settings
	if dir := strings.TrimSpace(m.textInput.Value()); dir != "" {
		settings.OutputDir = dir
	}
	settings.Refresh = m.refresh

	events := make(chan collect.ProgressEvent, 64)
	m.events = events
	m.pipeline = acclaim.NewPipeline(&settings, func(event collect.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})
	m.runID++
	m.state = StateRunning
	m.textInput.Blur()

	return m, tea.Batch(m.run(), waitForEvent(m.runID, events), m.spinner.Tick, m.tickProgress())
}

// run executes the pipeline in the background.
func (m Model) run() tea.Cmd {
	ctx, p, events, id := m.ctx, m.pipeline, m.events, m.runID
	return func() tea.Msg {
		res, err := p.Run(ctx)
		close(events)
		return RunDoneMsg{RunID: id, Result: res, Err: err}
	}
}

// waitForEvent delivers the next progress event, or nothing once the
// pipeline has finished.
func waitForEvent(id int, events <-chan collect.ProgressEvent) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{RunID: id, Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) percent() float64 {
	if m.counters.GenresTotal == 0 {
		return 0
	}
	return float64(m.counters.GenresDone) / float64(m.counters.GenresTotal)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("★ Universally Acclaimed"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Acclaimed albums per release year, by genre"))
	b.WriteString("\n\n")

	switch m.state {
	case StateSetup:
		b.WriteString(m.viewSetup())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewSetup() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Output directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Refresh scores from the network (ctrl+r)\n", check(m.refresh)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", check(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Cache: %s | Thresholds: users %v, critics %v",
		m.cacheDescription(), m.settings.UserThreshold, m.settings.CriticThreshold)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) cacheDescription() string {
	if m.settings.CacheBackend == "sqlite" {
		return m.settings.SQLitePath
	}
	return m.settings.ScoresPath + ", " + m.settings.GenresPath
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.counters.GenresTotal > 0 {
		b.WriteString(subtitleStyle.Render("Fetching album genres..."))
	} else {
		b.WriteString(subtitleStyle.Render("Collecting acclaimed albums..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Listing pages: %d | Scores: %d | Genres: %d/%d",
		m.counters.Pages,
		m.counters.Scores,
		m.counters.GenresDone,
		m.counters.GenresTotal,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"✓ Charts saved\n\n"+
			"File: %s\n"+
			"Albums: %d\n"+
			"Genres: %d\n"+
			"Charted: %d",
		m.result.OutputPath,
		m.result.Albums,
		m.result.Genres,
		len(m.result.Charted),
	))
	b.WriteString(box)
	b.WriteString("\n")

	for _, g := range m.result.Charted {
		b.WriteString(genreStyle.Render("  ♪ " + g))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Checkpointed genres are kept for the next run."))

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case collect.LevelError:
			style = errorStyle
			prefix = "✗"
		case collect.LevelWarning:
			style = warningStyle
			prefix = "!"
		case collect.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case collect.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSetup:
		return "enter: start • ctrl+r: refresh • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
