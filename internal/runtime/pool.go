package runtime

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/aretw0/switchyard/pkg/domain"
)

// fetchResult is posted by a worker back to the session goroutine.
type fetchResult struct {
	stepID string
	name   string
	update domain.Update
	err    error
}

// pool runs background fetches for one wizard session.
//
// At most size fetches run at once; Schedule never blocks the caller. Results are
// delivered on results and must be applied by the session goroutine. Once close
// returns, no further result is delivered.
type pool struct {
	sem     *semaphore.Weighted
	group   errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
	results chan fetchResult
	logger  *slog.Logger
}

func newPool(parent context.Context, size int, logger *slog.Logger) *pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(parent)
	return &pool{
		sem:     semaphore.NewWeighted(int64(size)),
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan fetchResult),
		logger:  logger,
	}
}

// scheduler returns a domain.Scheduler that tags fetches with stepID.
func (p *pool) scheduler(stepID string) domain.Scheduler {
	return stepScheduler{pool: p, stepID: stepID}
}

func (p *pool) submit(stepID, name string, fetch domain.Fetch) {
	if p.ctx.Err() != nil {
		p.logger.Debug("fetch dropped, session closed", "step_id", stepID, "fetch", name)
		return
	}
	p.group.Go(func() error {
		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return nil
		}
		defer p.sem.Release(1)

		update, err := fetch(p.ctx)
		select {
		case p.results <- fetchResult{stepID: stepID, name: name, update: update, err: err}:
		case <-p.ctx.Done():
			p.logger.Debug("fetch result discarded", "step_id", stepID, "fetch", name)
		}
		return nil
	})
}

// close cancels in-flight fetches and waits for the workers to exit.
func (p *pool) close() {
	p.cancel()
	_ = p.group.Wait()
}

type stepScheduler struct {
	pool   *pool
	stepID string
}

func (s stepScheduler) Schedule(name string, fetch domain.Fetch) {
	s.pool.submit(s.stepID, name, fetch)
}
