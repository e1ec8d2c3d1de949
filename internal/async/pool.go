package async

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool runs analyses on a fixed number of workers. Results arrive on
// Results() in completion order; callers must drain it.
type Pool struct {
	analyzer Analyzer
	logger   *slog.Logger
	workers  int
	timeout  time.Duration

	ch      chan Job
	results chan Result
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.ch = make(chan Job, n)
			p.results = make(chan Result, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPool(a Analyzer, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		analyzer: a,
		logger:   logger,
		workers:  4,
		timeout:  3 * time.Minute,
		ch:       make(chan Job, 256),
		results:  make(chan Result, 256),
	}
	for _, o := range opts {
		o(p)
	}
	p.start()
	return p
}

func (p *Pool) Results() <-chan Result { return p.results }

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go func(workerID int) {
				defer p.wg.Done()
				p.logger.Debug("pool.worker.started", "worker_id", workerID)

				for job := range p.ch {
					p.results <- p.run(workerID, job)
				}

				p.logger.Debug("pool.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (p *Pool) run(workerID int, job Job) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var res Result
	res.Job = job
	if job.Path != "" {
		res.Analysis, res.Err = p.analyzer.AnalyzeFile(ctx, job.Path, job.Language)
	} else {
		res.Analysis, res.Err = p.analyzer.Analyze(ctx, job.Data, job.Format, job.Language)
	}
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		p.logger.Error("pool.job.failed", "worker_id", workerID, "job_id", job.ID, "error", res.Err)
	} else {
		p.logger.Info("pool.job.ok", "worker_id", workerID, "job_id", job.ID, "status", res.Analysis.Status, "elapsed_ms", res.Elapsed.Milliseconds())
	}
	return res
}

// Enqueue blocks while the queue is full, until ctx is done.
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("pool.enqueue.closed", "job_id", job.ID)
		return ErrPoolClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case p.ch <- job:
		p.logger.Debug("pool.enqueue.ok", "job_id", job.ID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake, waits for in-flight jobs and then closes Results().
func (p *Pool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.ch)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
		close(p.results)
	}()

	select {
	case <-ctx.Done():
		p.logger.Warn("pool.shutdown.interrupted")
	case <-done:
		p.logger.Info("pool.shutdown.drained")
	}
}

// RunBatch analyzes jobs on a temporary pool and returns results in job order.
func RunBatch(ctx context.Context, a Analyzer, jobs []Job, logger *slog.Logger, opts ...Option) []Result {
	p := NewPool(a, logger, append([]Option{WithQueueSize(len(jobs))}, opts...)...)

	out := make([]Result, len(jobs))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range p.Results() {
			out[r.Job.seq] = r
		}
	}()

	for i := range jobs {
		job := jobs[i]
		job.seq = i
		if err := p.Enqueue(ctx, job); err != nil {
			out[i] = Result{Job: job, Err: err}
		}
	}
	p.Shutdown(context.Background())
	<-collected
	return out
}
