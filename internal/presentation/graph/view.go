package graph

import (
	"github.com/aretw0/switchyard/pkg/domain"
)

// StepView is the serializable form of one step.
type StepView struct {
	ID       string `json:"id"`
	First    bool   `json:"first,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`
}

// TransitionView is the serializable form of one transition.
type TransitionView struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Conditional bool   `json:"conditional,omitempty"`
	Label       string `json:"label,omitempty"`
}

// FlowView is the serializable form of a flow graph. Predicates are reduced to their
// labels.
type FlowView struct {
	Kind        domain.ProjectKind `json:"kind"`
	FirstStep   string             `json:"first_step"`
	Steps       []StepView         `json:"steps"`
	Transitions []TransitionView   `json:"transitions"`
}

// Describe builds the FlowView of g.
func Describe(kind domain.ProjectKind, g *domain.FlowGraph) FlowView {
	v := FlowView{Kind: kind, FirstStep: g.FirstStep()}
	for _, id := range g.Steps() {
		v.Steps = append(v.Steps, StepView{
			ID:       id,
			First:    id == g.FirstStep(),
			Terminal: len(g.TransitionsFrom(id)) == 0,
		})
	}
	for _, t := range g.Transitions() {
		v.Transitions = append(v.Transitions, TransitionView{
			From:        t.From,
			To:          t.To,
			Conditional: t.Conditional(),
			Label:       t.Label,
		})
	}
	return v
}
