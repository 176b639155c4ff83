package domain

import (
	"fmt"
	"slices"
)

// StepDef pairs a step id with its factory.
type StepDef struct {
	ID      string
	Factory StepFactory
}

// FlowGraph is the immutable navigation graph of a wizard.
type FlowGraph struct {
	factories   map[string]StepFactory
	order       []string
	transitions []Transition
	first       string
}

// NewFlowGraph validates and freezes a graph.
// An empty first defaults to the first step. Every problem is reported at once.
func NewFlowGraph(steps []StepDef, transitions []Transition, first string) (*FlowGraph, error) {
	g := &FlowGraph{
		factories:   make(map[string]StepFactory, len(steps)),
		order:       make([]string, 0, len(steps)),
		transitions: slices.Clone(transitions),
		first:       first,
	}

	var problems []error
	if len(steps) == 0 {
		problems = append(problems, fmt.Errorf("%w: graph has no steps", ErrUnknownStep))
	}

	for _, s := range steps {
		if s.ID == "" {
			problems = append(problems, fmt.Errorf("%w: empty step id", ErrUnknownStep))
			continue
		}
		if s.Factory == nil {
			problems = append(problems, fmt.Errorf("%w: step %s has no factory", ErrUnknownStep, s.ID))
			continue
		}
		if _, dup := g.factories[s.ID]; dup {
			problems = append(problems, fmt.Errorf("%w: %s", ErrDuplicateStep, s.ID))
			continue
		}
		g.factories[s.ID] = s.Factory
		g.order = append(g.order, s.ID)
	}

	if g.first == "" && len(g.order) > 0 {
		g.first = g.order[0]
	}
	if g.first != "" && len(steps) > 0 {
		if _, ok := g.factories[g.first]; !ok {
			problems = append(problems, fmt.Errorf("%w: first step %s", ErrUnknownStep, g.first))
		}
	}

	for _, t := range g.transitions {
		if _, ok := g.factories[t.From]; !ok {
			problems = append(problems, fmt.Errorf("%w: %s -> %s (source)", ErrDanglingTransition, t.From, t.To))
		}
		if _, ok := g.factories[t.To]; !ok {
			problems = append(problems, fmt.Errorf("%w: %s -> %s (target)", ErrDanglingTransition, t.From, t.To))
		}
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return g, nil
}

// FirstStep returns the entry step id.
func (g *FlowGraph) FirstStep() string {
	return g.first
}

// NextStep returns the target of the first eligible transition leaving current.
// ok is false when current is terminal.
func (g *FlowGraph) NextStep(current string, s *Store) (string, bool) {
	for _, t := range g.transitions {
		if t.From != current {
			continue
		}
		if t.Eligible(s) {
			return t.To, true
		}
	}
	return "", false
}

// Lookup returns the factory registered for id.
func (g *FlowGraph) Lookup(id string) (StepFactory, bool) {
	f, ok := g.factories[id]
	return f, ok
}

// Instantiate creates a fresh instance of the step registered under id.
func (g *FlowGraph) Instantiate(id string) (WizardStep, error) {
	f, ok := g.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	return f(), nil
}

// Steps returns the step ids in registration order.
func (g *FlowGraph) Steps() []string {
	return slices.Clone(g.order)
}

// Transitions returns the transitions in evaluation order.
func (g *FlowGraph) Transitions() []Transition {
	return slices.Clone(g.transitions)
}

// TransitionsFrom returns the transitions leaving id, in evaluation order.
func (g *FlowGraph) TransitionsFrom(id string) []Transition {
	var out []Transition
	for _, t := range g.transitions {
		if t.From == id {
			out = append(out, t)
		}
	}
	return out
}

// TotalSteps returns the number of registered steps.
func (g *FlowGraph) TotalSteps() int {
	return len(g.order)
}
