package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rivalscan/rivalscan/internal/event"
	"github.com/rivalscan/rivalscan/internal/pipeline"
)

// rowStatus tracks where a stage is in its lifecycle.
type rowStatus int

const (
	statusPending rowStatus = iota
	statusRunning
	statusDone
	statusFailed
)

// stageRow holds the display state for one pipeline stage.
type stageRow struct {
	name        string // stage name, matched against event payloads
	title       string // heading shown in the checklist
	status      rowStatus
	degraded    bool   // stage ran without search evidence
	note        string // degradation reason from the search provider
	resultCount int
	duration    time.Duration
}

// Model holds the TUI application state
type Model struct {
	description string
	runID       string

	rows    []stageRow
	spinner spinner.Model

	// Terminal state of the run
	done     bool
	failed   bool
	degraded bool
	errText  string
	duration time.Duration

	width    int
	quitting bool
}

// NewModel creates a checklist model with one pending row per pipeline stage.
func NewModel(description string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	descriptors := pipeline.Stages()
	rows := make([]stageRow, len(descriptors))
	for i, sd := range descriptors {
		rows[i] = stageRow{
			name:  sd.Stage.String(),
			title: sd.Title,
		}
	}

	return Model{
		description: description,
		rows:        rows,
		spinner:     sp,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		return m.applyEvent(msg.event)
	}

	return m, nil
}

// applyEvent folds a pipeline event into the checklist state. Terminal run
// events quit the program so control returns to the command.
func (m Model) applyEvent(ev event.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case event.RunStartedEvent:
		m.runID = ev.RunID

	case event.StageStartedEvent:
		if i := m.rowIndex(ev.Stage); i >= 0 {
			m.rows[i].status = statusRunning
		}

	case event.SearchDegradedEvent:
		if i := m.rowIndex(ev.Stage); i >= 0 {
			m.rows[i].degraded = true
			m.rows[i].note = ev.Reason
		}

	case event.StageCompletedEvent:
		if i := m.rowIndex(ev.Stage); i >= 0 {
			m.rows[i].status = statusDone
			m.rows[i].degraded = m.rows[i].degraded || ev.Degraded
			m.rows[i].resultCount = ev.ResultCount
			m.rows[i].duration = ev.Duration
		}

	case event.RunCompletedEvent:
		m.done = true
		m.degraded = ev.Degraded
		m.duration = ev.Duration
		return m, tea.Quit

	case event.RunFailedEvent:
		m.done = true
		m.failed = true
		m.errText = ev.Error
		if i := m.rowIndex(ev.FailedStage); i >= 0 {
			m.rows[i].status = statusFailed
		}
		return m, tea.Quit
	}

	return m, nil
}

// rowIndex returns the position of the named stage, or -1.
func (m Model) rowIndex(name string) int {
	for i := range m.rows {
		if m.rows[i].name == name {
			return i
		}
	}
	return -1
}
