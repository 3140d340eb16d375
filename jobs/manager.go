// Worker pool driving job execution.

package jobs

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/agent"
)

// sweepInterval is how often expired terminal jobs are removed.
const sweepInterval = time.Minute

// RunFunc executes one job request and returns the agent's response.
type RunFunc func(ctx context.Context, req Request) (agent.Response, error)

// Manager runs a pool of workers over a queue.
type Manager struct {
	queue    *Queue
	run      RunFunc
	workers  int
	notifier *Notifier
}

// NewManager creates a manager with the given worker count.
func NewManager(queue *Queue, run RunFunc, workers int) *Manager {
	if workers <= 0 {
		workers = 4
	}
	return &Manager{
		queue:    queue,
		run:      run,
		workers:  workers,
		notifier: NewNotifier(),
	}
}

// Submit enqueues a request.
func (m *Manager) Submit(req Request) (*Job, error) {
	return m.queue.Enqueue(req)
}

// Job returns a snapshot of a job by ID.
func (m *Manager) Job(id string) (*Job, error) {
	return m.queue.Get(id)
}

// Start runs the worker pool until ctx is cancelled or the queue is closed.
// Blocks; run it in its own goroutine. Returns the first worker error, which
// in practice is only ctx.Err().
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < m.workers; i++ {
		worker := i
		g.Go(func() error {
			return m.workLoop(ctx, worker)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				if removed := m.queue.Sweep(now); removed > 0 {
					slog.Debug("jobs_swept", "removed", removed)
				}
			}
		}
	})

	err := g.Wait()

	// Whatever is still sitting in the channel will never run.
	for {
		select {
		case id, ok := <-m.queue.Work():
			if !ok {
				return err
			}
			m.queue.cancel(id)
		default:
			return err
		}
	}
}

func (m *Manager) workLoop(ctx context.Context, worker int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-m.queue.Work():
			if !ok {
				return nil
			}
			m.process(ctx, worker, id)
		}
	}
}

func (m *Manager) process(ctx context.Context, worker int, id string) {
	if !m.queue.markStarted(id) {
		return
	}

	job, err := m.queue.Get(id)
	if err != nil {
		return
	}

	log := slog.With("job_id", id, "worker", worker, "agent", job.Request.Agent)
	log.Info("job_started")

	resp, err := m.run(ctx, job.Request)
	if err != nil {
		log.Error("job_failed", "error", err)
		m.queue.fail(id, err.Error())
	} else {
		m.queue.complete(id, &Result{
			Answer:          resp.Answer,
			Kind:            resp.Kind.String(),
			TraceID:         resp.Metadata.TraceID,
			ExecutionTimeMs: resp.Metadata.ExecutionTimeMs,
			LLMCalls:        resp.Metadata.LLMCalls,
			TokenUsage:      resp.Metadata.TokenUsage,
		})
		log.Info("job_completed", "kind", resp.Kind.String())
	}

	if job.Request.CallbackURL != "" {
		finished, err := m.queue.Get(id)
		if err == nil {
			m.notifier.Notify(ctx, finished)
		}
	}
}
