// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/components/input"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/components/status"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/keymap"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/messages"
	"github.com/tracedoc-labs/tracedoc/internal/adapters/driving/tui/styles"
	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
	"github.com/tracedoc-labs/tracedoc/internal/provenance"
)

// greeting opens every session, mirroring the assistant's first message
// in the original product.
const greeting = "您好！我已经学习了您的文档，请问有什么可以帮您的？"

// entry is one transcript message. Assistant entries produced by the
// pipeline additionally carry the full answer for source and
// inconsistency display.
type entry struct {
	message domain.ChatMessage
	answer  domain.Answer
	err     error
}

// View represents the chat view with input, transcript, and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	statusbar  *status.Bar
	transcript viewport.Model
	spinner    spinner.Model
	renderer   *provenance.Renderer

	askService       driving.AskService
	referenceService driving.ReferenceService
	ctx              context.Context

	entries   []entry
	refs      domain.ReferenceMap
	showTrace bool
	waiting   bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	askService driving.AskService,
	referenceService driving.ReferenceService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	v := &View{
		styles:           s,
		keymap:           km,
		input:            input.NewQuestionInput(s),
		statusbar:        status.NewBar(s, km),
		transcript:       viewport.New(80, 14),
		spinner:          sp,
		renderer:         provenance.NewStyledRenderer(s),
		askService:       askService,
		referenceService: referenceService,
		ctx:              context.Background(),
		width:            80,
		height:           24,
	}
	v.entries = []entry{{message: assistantMessage(greeting, nil)}}
	v.refreshTranscript()
	return v
}

func assistantMessage(content string, trace domain.Timeline) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   content,
		Trace:     trace,
		CreatedAt: time.Now(),
	}
}

func userMessage(content string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadReferences())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswerReceived(msg)
		return v, nil

	case messages.IndexReady:
		v.handleIndexReady(msg)
		return v, nil

	case messages.ReferencesLoaded:
		if msg.Err == nil {
			v.refs = msg.Refs
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	// Forward to transcript viewport
	var vpCmd tea.Cmd
	v.transcript, vpCmd = v.transcript.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, v.keymap.ToggleTrace) {
		v.showTrace = !v.showTrace
		v.refreshTranscript()
		return v, nil
	}

	if keymap.Matches(keyStr, v.keymap.Clear) {
		v.Reset()
		return v, nil
	}

	if msg.Type == tea.KeyEsc {
		v.input.Reset()
		return v, nil
	}

	// Enter submits the question; one query in flight at a time
	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.waiting {
			return v, nil
		}
		v.waiting = true
		v.err = nil
		v.input.Reset()
		v.input.Blur()
		v.entries = append(v.entries, entry{message: userMessage(question)})
		v.refreshTranscript()
		v.transcript.GotoBottom()
		v.statusbar.SetState(status.StateThinking)
		return v, tea.Batch(v.performAsk(question), v.spinner.Tick)
	}

	// Scrolling keys go to the transcript, everything else to the input
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	default:
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// performAsk runs one question through the pipeline.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.askService == nil {
			return messages.ErrorOccurred{Err: ErrNoAskService}
		}

		answer, err := v.askService.Ask(v.ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// loadReferences fetches the reference map for provenance display.
func (v *View) loadReferences() tea.Cmd {
	return func() tea.Msg {
		if v.referenceService == nil {
			return messages.ReferencesLoaded{Refs: domain.ReferenceMap{}}
		}
		refs, err := v.referenceService.Load(v.ctx)
		return messages.ReferencesLoaded{Refs: refs, Err: err}
	}
}

// handleAnswerReceived appends the completed turn to the transcript.
func (v *View) handleAnswerReceived(msg messages.AnswerReceived) {
	v.waiting = false
	v.input.Focus()

	if msg.Err != nil {
		v.entries = append(v.entries, entry{err: msg.Err})
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.entries = append(v.entries, entry{
			message: assistantMessage(msg.Answer.Text, msg.Answer.Trace),
			answer:  msg.Answer,
		})
		v.err = nil
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetSourceCount(len(msg.Answer.Sources))
	}

	v.refreshTranscript()
	v.transcript.GotoBottom()
}

// handleIndexReady reports the collection warm-up outcome.
func (v *View) handleIndexReady(msg messages.IndexReady) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.statusbar.SetState(status.StateReady)
	if msg.Status.Built {
		v.statusbar.SetMessage(fmt.Sprintf("Indexed %d chunks", msg.Status.Records))
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("%d chunks ready", msg.Status.Records))
	}
}

// refreshTranscript re-renders all entries into the viewport.
func (v *View) refreshTranscript() {
	v.transcript.SetContent(v.renderEntries())
}

// renderEntries formats the transcript.
func (v *View) renderEntries() string {
	sections := make([]string, 0, len(v.entries)*2)
	for _, e := range v.entries {
		if e.err != nil {
			sections = append(sections, v.styles.Error.Render("Error: "+e.err.Error()), "")
			continue
		}

		switch e.message.Role {
		case domain.RoleUser:
			sections = append(sections, v.styles.Subtitle.Render("You: ")+v.styles.Normal.Render(e.message.Content))
		case domain.RoleAssistant:
			sections = append(sections, v.styles.Normal.Render(e.message.Content))
			sections = append(sections, v.renderAnswerDetail(e)...)
		}

		sections = append(sections, "")
	}

	return strings.Join(sections, "\n")
}

// renderAnswerDetail formats sources, inconsistencies, and the optional
// trace of one assistant entry.
func (v *View) renderAnswerDetail(e entry) []string {
	var sections []string

	if len(e.answer.Sources) > 0 {
		refs := make([]string, 0, len(e.answer.Sources))
		for _, hit := range e.answer.Sources {
			refs = append(refs, fmt.Sprintf("%s (page %d)", hit.ChunkID, hit.Page))
		}
		sections = append(sections, v.styles.Muted.Render("Sources: "+strings.Join(refs, ", ")))
	}

	if len(e.answer.Inconsistencies) > 0 {
		sections = append(sections, v.styles.Warning.Render(
			"Unresolved chunk IDs: "+strings.Join(e.answer.Inconsistencies, ", ")))
	}

	if v.showTrace && len(e.message.Trace) > 0 {
		sections = append(sections, "", v.renderer.Render(e.message.Trace, v.refs))
	}

	return sections
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Tracedoc")
	sections = append(sections, header, "")

	if v.waiting {
		sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" Thinking..."), "")
	} else {
		sections = append(sections, v.input.View(), "")
	}

	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	sections = append(sections, v.transcript.View())

	sections = append(sections, "")
	statusView := v.statusbar.View()
	sections = append(sections, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.transcript.Width = width
	transcriptHeight := height - 8 // Reserve space for header, input, status
	if transcriptHeight < 4 {
		transcriptHeight = 4
	}
	v.transcript.Height = transcriptHeight
	v.statusbar.SetWidth(width)
}

// Reset clears the transcript back to the opening greeting.
func (v *View) Reset() {
	v.entries = []entry{{message: assistantMessage(greeting, nil)}}
	v.err = nil
	v.showTrace = false
	v.waiting = false
	v.input.Reset()
	v.input.Focus()
	v.statusbar.Clear()
	v.refreshTranscript()
}

// LastAnswerPage returns the page of the top source of the most recent
// answer, for jumping into the document preview. ok is false when no
// answered entry exists.
func (v *View) LastAnswerPage() (int, bool) {
	for i := len(v.entries) - 1; i >= 0; i-- {
		e := v.entries[i]
		if e.err == nil && e.message.Role == domain.RoleAssistant && len(e.answer.Sources) > 0 {
			return e.answer.Sources[0].Page, true
		}
	}
	return 0, false
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Waiting reports whether a question is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// ShowTrace reports whether provenance reports are displayed.
func (v *View) ShowTrace() bool {
	return v.showTrace
}

// Transcript returns the session messages in order.
func (v *View) Transcript() []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, 0, len(v.entries))
	for _, e := range v.entries {
		if e.err == nil {
			msgs = append(msgs, e.message)
		}
	}
	return msgs
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
