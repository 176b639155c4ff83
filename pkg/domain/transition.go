package domain

// Predicate decides whether a transition is eligible for the current answers.
type Predicate func(*Store) bool

// Transition defines a rule to move from one step to another.
type Transition struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`

	// When must evaluate to true for this transition to be taken.
	// If nil, it's considered an "always" transition.
	When Predicate `json:"-" yaml:"-"`

	// Label describes When for graph renderings.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Conditional reports whether the transition carries a predicate.
func (t Transition) Conditional() bool {
	return t.When != nil
}

// Eligible evaluates the transition against the store.
func (t Transition) Eligible(s *Store) bool {
	return t.When == nil || t.When(s)
}
