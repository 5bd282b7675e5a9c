// Package worker runs background jobs on a fixed set of goroutines fed by a
// bounded queue.
package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Submit when the queue is saturated.
	ErrQueueFull = eris.New("worker: queue full")
	// ErrClosed is returned by Submit after Shutdown has begun.
	ErrClosed = eris.New("worker: pool closed")
)

// Job is a unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

// Name implements Job.
func (j JobFunc) Name() string { return j.Label }

// Run implements Job.
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Config sizes the pool.
type Config struct {
	Concurrency int
	QueueSize   int
	// JobTimeout bounds each job; zero means no limit.
	JobTimeout time.Duration
}

// Stats are cumulative pool counters.
type Stats struct {
	Submitted int64
	Rejected  int64
	Succeeded int64
	Failed    int64
	Panicked  int64
	Queued    int
}

type task struct {
	ctx context.Context
	job Job
}

// Pool is a bounded background job runner.
type Pool struct {
	cfg   Config
	queue chan task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	submitted, rejected, succeeded, failed, panicked atomic.Int64
}

// New starts a pool with cfg.Concurrency workers.
func New(cfg Config) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	p := &Pool{cfg: cfg, queue: make(chan task, cfg.QueueSize)}
	for i := 0; i < cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

// Submit enqueues job without blocking. The job's context keeps ctx's values
// but not its cancellation, so it outlives the request that submitted it.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.rejected.Add(1)
		return ErrClosed
	}
	select {
	case p.queue <- task{ctx: context.WithoutCancel(ctx), job: job}:
		p.submitted.Add(1)
		return nil
	default:
		p.rejected.Add(1)
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued and running jobs to
// finish, or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "worker: shutdown")
	}
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Rejected:  p.rejected.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
		Queued:    len(p.queue),
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for t := range p.queue {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	ctx := t.ctx
	if p.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	log := zap.L().With(zap.String("job", t.job.Name()))

	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			log.Error("worker: job panicked",
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err := t.job.Run(ctx); err != nil {
		p.failed.Add(1)
		log.Error("worker: job failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	p.succeeded.Add(1)
	log.Debug("worker: job done", zap.Duration("elapsed", time.Since(start)))
}
