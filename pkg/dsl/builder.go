package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/switchyard/pkg/domain"
)

// Builder manages the flow graph construction.
//
// Steps are kept in the order they were added. Build appends an unconditional
// transition between every consecutive pair of steps that has no transition with the
// same endpoints, so a graph declared without explicit transitions walks the steps in
// builder order. That order is the contract even when it differs from the intent of the
// caller.
type Builder struct {
	steps       []domain.StepDef
	index       map[string]*StepBuilder
	transitions []domain.Transition
	first       string
	duplicates  []string
}

// New creates a new flow builder.
func New() *Builder {
	return &Builder{
		index: make(map[string]*StepBuilder),
	}
}

// Add registers a step. The first step added is the entry step unless First is called.
// Adding the same id twice is reported by Build.
func (b *Builder) Add(id string, factory domain.StepFactory) *StepBuilder {
	if sb, ok := b.index[id]; ok {
		b.duplicates = append(b.duplicates, id)
		return sb
	}
	b.steps = append(b.steps, domain.StepDef{ID: id, Factory: factory})
	sb := &StepBuilder{id: id, builder: b}
	b.index[id] = sb
	if b.first == "" {
		b.first = id
	}
	return sb
}

// Step returns the builder of an already added step.
func (b *Builder) Step(id string) (*StepBuilder, bool) {
	sb, ok := b.index[id]
	return sb, ok
}

// First overrides the entry step.
func (b *Builder) First(id string) *Builder {
	b.first = id
	return b
}

// Transition appends an unconditional transition.
func (b *Builder) Transition(from, to string) *Builder {
	return b.When(from, to, nil)
}

// When appends a transition guarded by pred. A nil pred is always eligible.
func (b *Builder) When(from, to string, pred domain.Predicate) *Builder {
	b.transitions = append(b.transitions, domain.Transition{From: from, To: to, When: pred})
	return b
}

// WhenLabeled is When with a human readable description of pred.
func (b *Builder) WhenLabeled(from, to, label string, pred domain.Predicate) *Builder {
	b.transitions = append(b.transitions, domain.Transition{From: from, To: to, When: pred, Label: label})
	return b
}

// TransitionsFrom returns the transitions declared so far that leave id.
func (b *Builder) TransitionsFrom(id string) []domain.Transition {
	var out []domain.Transition
	for _, t := range b.transitions {
		if t.From == id {
			out = append(out, t)
		}
	}
	return out
}

// TransitionsTo returns the transitions declared so far that enter id.
func (b *Builder) TransitionsTo(id string) []domain.Transition {
	var out []domain.Transition
	for _, t := range b.transitions {
		if t.To == id {
			out = append(out, t)
		}
	}
	return out
}

// Remove deletes every declared transition from -> to. It does not affect transitions
// synthesized by Build.
func (b *Builder) Remove(from, to string) *Builder {
	b.transitions = slices.DeleteFunc(b.transitions, func(t domain.Transition) bool {
		return t.From == from && t.To == to
	})
	return b
}

// Build synthesizes the linear transitions and freezes the graph.
func (b *Builder) Build() (*domain.FlowGraph, error) {
	transitions := slices.Clone(b.transitions)
	for i := 0; i+1 < len(b.steps); i++ {
		from, to := b.steps[i].ID, b.steps[i+1].ID
		exists := slices.ContainsFunc(transitions, func(t domain.Transition) bool {
			return t.From == from && t.To == to
		})
		if !exists {
			transitions = append(transitions, domain.Transition{From: from, To: to})
		}
	}

	var problems []error
	for _, id := range b.duplicates {
		problems = append(problems, fmt.Errorf("%w: %s", domain.ErrDuplicateStep, id))
	}
	g, err := domain.NewFlowGraph(b.steps, transitions, b.first)
	if err != nil {
		var invalid *domain.ValidationError
		if errors.As(err, &invalid) {
			problems = append(problems, invalid.Problems...)
		} else {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("failed to build flow graph: %w", &domain.ValidationError{Problems: problems})
	}
	return g, nil
}

// StepBuilder provides a fluent API for the transitions leaving one step.
type StepBuilder struct {
	id      string
	builder *Builder
}

// ID returns the step id.
func (s *StepBuilder) ID() string {
	return s.id
}

// Go adds an unconditional transition to the target step.
func (s *StepBuilder) Go(target string) *StepBuilder {
	s.builder.Transition(s.id, target)
	return s
}

// Branch adds a conditional transition to the target step.
func (s *StepBuilder) Branch(pred domain.Predicate, target string) *StepBuilder {
	s.builder.When(s.id, target, pred)
	return s
}

// BranchLabeled is Branch with a description used by graph renderings.
func (s *StepBuilder) BranchLabeled(label string, pred domain.Predicate, target string) *StepBuilder {
	s.builder.WhenLabeled(s.id, target, label, pred)
	return s
}
