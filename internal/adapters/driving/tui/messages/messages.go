// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
)

// QuestionChanged is sent when the question input changes.
type QuestionChanged struct {
	Question string
}

// AskRequested is a command to run a question through the pipeline.
type AskRequested struct {
	Question string
}

// AnswerReceived carries a completed answer back to the model.
// The Answer's trace is finalised even when Err is non-nil.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// IndexReady reports the outcome of warming the vector collection up.
type IndexReady struct {
	Status domain.IndexStatus
	Err    error
}

// ReferencesLoaded carries the corpus reference map for provenance display.
type ReferencesLoaded struct {
	Refs domain.ReferenceMap
	Err  error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer view.
	ViewChat ViewType = iota
	// ViewPreview is the document preview view.
	ViewPreview
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewPreview:
		return "preview"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
