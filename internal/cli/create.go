package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/switchyard/internal/creation"
	"github.com/aretw0/switchyard/internal/presentation/tui"
	"github.com/aretw0/switchyard/internal/runtime"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/aretw0/switchyard/pkg/ports"
)

// ErrNotInteractive is returned when the wizard needs a terminal and has none.
var ErrNotInteractive = errors.New("no terminal attached: pass --answers to create a project without prompts")

// CreateOptions configure one run of the create command.
type CreateOptions struct {
	Kind domain.ProjectKind
	// AnswersPath names a YAML answers file. When set the wizard runs headless.
	AnswersPath string
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// Create runs the wizard for opts.Kind, then the creation pipeline, and records the
// outcome. The record is returned even when the pipeline failed.
func (a *App) Create(ctx context.Context, opts CreateOptions) (*domain.ProjectRecord, error) {
	graph, err := a.Onboarding.Flow(opts.Kind)
	if err != nil {
		return nil, err
	}

	prompter, answers, err := a.selectPrompter(opts)
	if err != nil {
		return nil, err
	}
	if opts.Interactive && answers == nil {
		tui.PrintBanner(opts.Out)
	}

	wizard := runtime.NewWizard(graph, prompter,
		runtime.WithWorkers(a.Config.Workers),
		runtime.WithLogger(a.Logger),
		runtime.WithLifecycleHooks(a.Hooks()),
	)
	store, err := wizard.Run(ctx, domain.NewStore())
	if err != nil {
		return nil, err
	}
	if answers != nil {
		if unused := answers.Unused(); len(unused) > 0 {
			a.Logger.Warn("answers not used by any step", "keys", unused)
		}
	}

	dir, err := domain.Require(store, domain.KeyProjectDir)
	if err != nil {
		return nil, err
	}
	pc := domain.NewProjectContext(store, dir)

	actions, err := creation.Actions(opts.Kind, a.CreationDeps())
	if err != nil {
		return nil, err
	}
	progress := tui.NewProgress(opts.Out, len(actions))
	pipeline, err := runtime.NewPipeline(actions,
		runtime.WithPipelineHooks(a.Hooks().Merge(progress.Hooks())),
		runtime.WithPipelineLogger(a.Logger),
	)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(opts.Out)
	return a.Sessions.Create(ctx, opts.Kind, pc, func(ctx context.Context) error {
		return pipeline.Run(ctx, pc, progress)
	})
}

// selectPrompter prefers an answers file, then the terminal.
func (a *App) selectPrompter(opts CreateOptions) (ports.Prompter, *tui.AnswersPrompter, error) {
	if opts.AnswersPath != "" {
		answers, err := tui.LoadAnswers(opts.AnswersPath)
		if err != nil {
			return nil, nil, err
		}
		p := tui.NewAnswersPrompter(answers, 0)
		return p, p, nil
	}
	if !opts.Interactive || opts.In == nil {
		return nil, nil, ErrNotInteractive
	}
	return tui.NewPrompter(opts.In, opts.Out, tui.WithMarkdown(tui.NewRenderer())), nil, nil
}

// HandleExecutionError silences the errors of a user who chose to leave.
func HandleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrWizardCancelled) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
