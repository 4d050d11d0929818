package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/messages"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/styles"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/views/chat"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/views/preview"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chatView is the question and answer view component.
	chatView *chat.View

	// previewView is the document preview view component.
	previewView *preview.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	chatView := chat.NewView(s, nil, ports.Ask, ports.Reference)
	previewView := preview.NewView(s, nil)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		chatView:    chatView,
		previewView: previewView,
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("tracedoc - Document QA"),
		a.chatView.Init(),
		a.warmIndex(),
	)
}

// warmIndex makes sure the vector collection is queryable before the
// first question arrives.
func (a *App) warmIndex() tea.Cmd {
	if a.ports.Index == nil {
		return nil
	}
	return func() tea.Msg {
		status, err := a.ports.Index.EnsureReady(a.ctx)
		return messages.IndexReady{Status: status, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.previewView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if a.currentView == messages.ViewHelp {
			// Any navigation key leaves help
			if msg.Type == tea.KeyEsc || msg.String() == "f1" {
				a.currentView = messages.ViewChat
			}
			return a, nil
		}

		if msg.String() == "f1" {
			a.currentView = messages.ViewHelp
			return a, nil
		}

		if a.currentView == messages.ViewPreview {
			// Esc from preview goes back to chat
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewChat
				return a, nil
			}
			a.previewView, cmd = a.previewView.Update(msg)
			return a, cmd
		}

		// Preview opens at the page backing the latest answer
		if msg.String() == "ctrl+p" {
			if page, ok := a.chatView.LastAnswerPage(); ok {
				a.previewView.JumpToPage(page)
			}
			a.currentView = messages.ViewPreview
			return a, nil
		}

		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ReferencesLoaded:
		// Both the chat trace display and the preview need the map
		a.chatView, cmd = a.chatView.Update(msg)
		a.previewView, _ = a.previewView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the chat view
	a.chatView, cmd = a.chatView.Update(msg)
	a.err = a.chatView.Err()
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewPreview:
		return a.previewView.View()
	case messages.ViewChat:
		return a.chatView.View()
	default:
		return a.chatView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Chat:
  (type)      Enter a question
  enter       Ask
  ctrl+t      Toggle provenance trace for answers
  ctrl+p      Open the document preview
  ctrl+l      Clear the transcript
  esc         Clear the input

Transcript:
  ↑/↓         Scroll
  pgup/pgdn   Page

Preview:
  ←/h, →/l    Previous / next page
  esc         Back to chat

Global:
  f1          Toggle this help
  ctrl+c      Quit

[esc] back to chat`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}
