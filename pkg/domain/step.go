package domain

import (
	"context"
)

// FieldKind tells the rendering layer which widget a field needs.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldTextArea  FieldKind = "textarea"
	FieldChoice    FieldKind = "choice"
	FieldToggle    FieldKind = "toggle"
	FieldDirectory FieldKind = "directory"
)

// Field describes one input collected by a wizard step.
type Field struct {
	// Key is the Store name the field writes to.
	Key string
	// Label and Info are translation keys.
	Label string
	Info  string
	Kind  FieldKind
	// Required fields must be non-empty for the step to be valid.
	Required bool
	// Translate marks choice options as translation keys rather than literal text.
	Translate bool
	// Default computes the initial text from the current store. May be nil.
	Default func(*Store) string
	// Validate checks the entered text. May be nil.
	Validate func(string) error
	// Parse converts the entered text into the stored value. Nil stores the text.
	Parse func(string) (any, error)
	// Visible hides the field when it returns false. May be nil.
	Visible func(*Store) bool
}

// OptionsKey returns the Store key holding a choice field's current options.
func OptionsKey(field string) Key[[]string] {
	return NewKey[[]string](field + ".options")
}

// Update is the result of a background fetch. Apply runs on the session goroutine.
type Update struct {
	Field string
	Apply func(*Store)
}

// Fetch performs background work for a step and returns the update to apply.
type Fetch func(ctx context.Context) (Update, error)

// Scheduler runs fetches off the session goroutine.
type Scheduler interface {
	Schedule(name string, fetch Fetch)
}

// FieldChange is emitted to the rendering layer after a background update was applied.
type FieldChange struct {
	StepID  string
	Field   string
	Value   string
	Options []string
}

// WizardStep is one interactive screen of the wizard.
type WizardStep interface {
	ID() string
	TranslationKey() string
	Fields() []Field
	// OnEnter runs on the session goroutine each time the step is shown.
	OnEnter(ctx context.Context, store *Store, sched Scheduler)
	// OnExit runs after the step was confirmed and before the next step is chosen.
	OnExit(store *Store) error
	// Validate returns per-field problems; an empty map means the step is valid.
	Validate(store *Store) map[string]string
}

// StepFactory creates a fresh step instance each time the step is visited.
type StepFactory func() WizardStep
