package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rivalscan/rivalscan/internal/event"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	bus     *event.Bus
	sub     event.Token
}

// New creates a TUI application that renders run progress from bus events.
// The subscription is registered immediately so events published before Run
// starts are queued rather than lost.
func New(bus *event.Bus, description string) *App {
	app := &App{
		bus:     bus,
		program: tea.NewProgram(NewModel(description)),
	}
	app.sub = bus.SubscribeAll(func(ev event.Event) {
		app.program.Send(eventMsg{event: ev})
	})
	return app
}

// Run starts the TUI application. It blocks until the run reaches a terminal
// state or the user quits, then releases the bus subscription.
func (a *App) Run() error {
	defer a.bus.Unsubscribe(a.sub)
	_, err := a.program.Run()
	return err
}

// Messages

type eventMsg struct {
	event event.Event
}
