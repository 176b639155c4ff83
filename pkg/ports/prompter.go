package ports

import (
	"context"

	"github.com/aretw0/switchyard/pkg/domain"
)

// Decision is what the user chose to do with the current step.
type Decision int

const (
	DecisionNext Decision = iota
	DecisionBack
	DecisionCancel
)

func (d Decision) String() string {
	switch d {
	case DecisionNext:
		return "next"
	case DecisionBack:
		return "back"
	case DecisionCancel:
		return "cancel"
	}
	return "unknown"
}

// PromptRequest describes one step presentation. Values and Options are snapshots;
// later background updates arrive on Changes.
type PromptRequest struct {
	StepID string
	// Title is the step translation key.
	Title     string
	Index     int
	Total     int
	Fields    []domain.Field
	Values    map[string]string
	Options   map[string][]string
	Problems  map[string]string
	CanGoBack bool
	// Changes is closed when the step is left.
	Changes <-chan domain.FieldChange
}

// PromptResponse carries the raw text entered for each field.
type PromptResponse struct {
	Decision Decision
	Values   map[string]string
}

// Prompter is the rendering layer of the wizard.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (PromptResponse, error)
}
