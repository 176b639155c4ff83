package tui

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Answers are wizard values keyed by field, as written in an answers file:
//
//	project_name: Example Mod
//	minecraft_version: 1.21.1
//	init_git: false
type Answers map[string]string

// LoadAnswers reads a YAML answers file. Scalars of any type are kept as text.
func LoadAnswers(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	answers := make(Answers, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("answer %q must be a single value", k)
		case nil:
			answers[k] = ""
		default:
			answers[k] = fmt.Sprint(v)
		}
	}
	return answers, nil
}

// AnswersPrompter drives the wizard without a terminal. Fields without an answer
// keep their default, and choices wait for their background listing first.
type AnswersPrompter struct {
	answers     Answers
	optionsWait time.Duration
	used        map[string]bool
}

// NewAnswersPrompter creates a headless prompter. wait bounds the time spent waiting
// for each choice listing; zero uses DefaultOptionsWait.
func NewAnswersPrompter(answers Answers, wait time.Duration) *AnswersPrompter {
	if wait <= 0 {
		wait = DefaultOptionsWait
	}
	return &AnswersPrompter{
		answers:     answers,
		optionsWait: wait,
		used:        make(map[string]bool),
	}
}

// Prompt implements ports.Prompter. A step that rejects the answers fails the run
// rather than asking again.
func (p *AnswersPrompter) Prompt(ctx context.Context, req ports.PromptRequest) (ports.PromptResponse, error) {
	if len(req.Problems) > 0 {
		return ports.PromptResponse{}, &RejectedError{StepID: req.StepID, Problems: req.Problems}
	}

	values := maps.Clone(req.Values)
	if values == nil {
		values = make(map[string]string)
	}
	options := maps.Clone(req.Options)
	if options == nil {
		options = make(map[string][]string)
	}

	for _, f := range req.Fields {
		if f.Kind != domain.FieldChoice || len(options[f.Key]) > 0 {
			continue
		}
		if err := p.awaitOptions(ctx, req.Changes, f.Key, values, options); err != nil {
			return ports.PromptResponse{}, err
		}
	}
	drain(req.Changes, values, options)

	for _, f := range req.Fields {
		if text, ok := p.answers[f.Key]; ok {
			values[f.Key] = resolveAnswer(f, text, options[f.Key])
			p.used[f.Key] = true
		}
	}
	return ports.PromptResponse{Decision: ports.DecisionNext, Values: values}, nil
}

// Unused lists answers no visited field asked for, sorted.
func (p *AnswersPrompter) Unused() []string {
	var out []string
	for k := range p.answers {
		if !p.used[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

func (p *AnswersPrompter) awaitOptions(ctx context.Context, changes <-chan domain.FieldChange, key string, values map[string]string, options map[string][]string) error {
	timeout := time.NewTimer(p.optionsWait)
	defer timeout.Stop()
	for {
		select {
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			applyChange(c, values, options)
			if c.Field == key && len(c.Options) > 0 {
				return nil
			}
		case <-timeout.C:
			// Offline: the answer, if any, is used as typed.
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RejectedError reports answers a step did not accept.
type RejectedError struct {
	StepID   string
	Problems map[string]string
}

func (e *RejectedError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Problems))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Problems[k])
	}
	return fmt.Sprintf("step %s rejected answers (%s)", e.StepID, strings.Join(parts, "; "))
}
