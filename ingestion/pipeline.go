package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/baibhavbista/gai-workcycles/records"
)

// Pipeline attaches job creation to record writes without blocking
// them. Every hook is fire-and-forget: creation runs on a worker pool
// and failures are logged, never returned, so a broken embedding
// subsystem cannot break the write that triggered it.
type Pipeline struct {
	creator *Creator
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for async job creation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given creator.
func NewPipeline(creator *Creator, opts ...Option) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		creator: creator,
		pool:    pool,
		logger:  slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// SessionSaved queues field jobs for a session's current text columns.
// Called whenever session planning or review fields are written.
func (p *Pipeline) SessionSaved(s *records.Session) {
	snapshot := *s
	p.submit("session fields", func(ctx context.Context) error {
		_, err := p.creator.CreateSessionFieldJobs(ctx, &snapshot)
		return err
	})
}

// CycleSaved queues field jobs for a cycle's current text columns.
func (p *Pipeline) CycleSaved(c *records.Cycle) {
	snapshot := *c
	p.submit("cycle fields", func(ctx context.Context) error {
		_, err := p.creator.CreateCycleFieldJobs(ctx, &snapshot)
		return err
	})
}

// CycleEnded queues the cycle-level job once a cycle review is saved,
// along with field jobs for the review columns.
func (p *Pipeline) CycleEnded(c *records.Cycle) {
	snapshot := *c
	p.submit("cycle", func(ctx context.Context) error {
		if _, err := p.creator.CreateCycleFieldJobs(ctx, &snapshot); err != nil {
			return err
		}
		_, err := p.creator.CreateCycleJob(ctx, &snapshot)
		return err
	})
}

// SessionCompleted queues the session-level job once a session wraps
// up, along with field jobs for the review columns.
func (p *Pipeline) SessionCompleted(s *records.Session, cycles []*records.Cycle) {
	session := *s
	copied := make([]*records.Cycle, len(cycles))
	for i, c := range cycles {
		cc := *c
		copied[i] = &cc
	}
	p.submit("session", func(ctx context.Context) error {
		if _, err := p.creator.CreateSessionFieldJobs(ctx, &session); err != nil {
			return err
		}
		_, err := p.creator.CreateSessionJob(ctx, &session, copied)
		return err
	})
}

// submit runs fn on the pool. Submission and execution failures are
// logged and swallowed.
func (p *Pipeline) submit(what string, fn func(ctx context.Context) error) {
	err := p.pool.Submit(func() {
		if err := fn(context.Background()); err != nil {
			p.logger.Error("job creation failed", "what", what, "err", err)
		}
	})
	if err != nil {
		p.logger.Error("could not submit job creation", "what", what, "err", err)
	}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
