package domain

import (
	"context"
)

// ProgressSink receives human-readable progress messages. Info must not block.
type ProgressSink interface {
	Info(msg string)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(msg string)

func (f ProgressFunc) Info(msg string) {
	f(msg)
}

// DiscardProgress drops every message.
var DiscardProgress ProgressSink = ProgressFunc(func(string) {})

// ProjectContext is the state handed from the finished wizard to the pipeline.
type ProjectContext struct {
	Data       *Store
	ProjectDir string
}

// NewProjectContext copies the wizard answers so later edits to the wizard store do not
// leak into the pipeline.
func NewProjectContext(answers *Store, dir string) *ProjectContext {
	return &ProjectContext{
		Data:       answers.Clone(),
		ProjectDir: dir,
	}
}

// PipelineAction is one non-interactive unit of project creation.
// Implementations are stateless and run at most once per pipeline run.
type PipelineAction interface {
	ID() string
	TranslationKey() string
	Run(ctx context.Context, pc *ProjectContext, sink ProgressSink) error
}
