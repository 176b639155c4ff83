package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aretw0/switchyard/internal/i18n"
	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/muesli/termenv"
)

// Progress prints pipeline activity: one headline per action and its messages
// indented below it.
type Progress struct {
	mu    sync.Mutex
	out   *termenv.Output
	total int
	index int
}

// NewProgress writes to w. total is the number of actions, shown as [n/total].
func NewProgress(w io.Writer, total int) *Progress {
	return &Progress{
		out:   termenv.NewOutput(w),
		total: total,
	}
}

// Info implements domain.ProgressSink.
func (p *Progress) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "    %s\n", p.out.String(msg).Faint())
}

// Hooks prints the headline of each action as it starts and its outcome.
func (p *Progress) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActionStart: func(_ context.Context, e *domain.ActionEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.index++
			title := i18n.T("project.creation.task." + e.ActionID)
			counter := p.out.String(fmt.Sprintf("[%d/%d]", p.index, p.total)).Foreground(p.out.Color("#22d3ee"))
			fmt.Fprintf(p.out, "%s %s\n", counter, p.out.String(title).Bold())
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if e.Err != nil {
				fmt.Fprintf(p.out, "    %s %v\n", p.out.String("✗").Foreground(p.out.Color("#f87171")), e.Err)
				return
			}
			fmt.Fprintf(p.out, "    %s %s\n", p.out.String("✓").Foreground(p.out.Color("#34d399")), e.Duration.Round(time.Millisecond))
		},
	}
}
