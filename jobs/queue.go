// In-memory job queue and status store.
//
// Jobs flow through a bounded channel; statuses live in a map guarded by a
// RWMutex. Terminal jobs are swept once their TTL passes so the store does
// not grow without bound.

package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned when the queue cannot accept another job.
var ErrQueueFull = fmt.Errorf("job queue is full")

// ErrNotFound is returned when a job ID is unknown or already swept.
var ErrNotFound = fmt.Errorf("job not found")

// Queue holds pending jobs and tracks every job's status until its TTL.
type Queue struct {
	work chan string
	ttl  time.Duration

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewQueue creates a queue with the given capacity and result TTL.
func NewQueue(capacity int, ttl time.Duration) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{
		work: make(chan string, capacity),
		ttl:  ttl,
		jobs: make(map[string]*Job),
	}
}

// Enqueue accepts a request and returns the queued job.
func (q *Queue) Enqueue(req Request) (*Job, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.mu.Unlock()

	// The ID is published only after the queued status is stored. A worker
	// may pick the job up immediately and its transitions must stick.
	select {
	case q.work <- job.ID:
	default:
		q.mu.Lock()
		delete(q.jobs, job.ID)
		q.mu.Unlock()
		return nil, ErrQueueFull
	}

	return q.Get(job.ID)
}

// Get returns a snapshot of a job by ID.
func (q *Queue) Get(id string) (*Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	job, ok := q.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.clone(), nil
}

// Len returns the number of tracked jobs.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.jobs)
}

// Work exposes the channel workers consume job IDs from.
func (q *Queue) Work() <-chan string {
	return q.work
}

// Close stops accepting new work. Safe to call once.
func (q *Queue) Close() {
	close(q.work)
}

// markStarted transitions a job to processing. Returns false when the job
// was already swept or cancelled.
func (q *Queue) markStarted(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok || job.Status.Terminal() {
		return false
	}
	now := time.Now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &now
	return true
}

// complete records a successful result.
func (q *Queue) complete(id string, result *Result) {
	q.finish(id, StatusCompleted, result, "")
}

// fail records a failure message.
func (q *Queue) fail(id string, errMsg string) {
	q.finish(id, StatusFailed, nil, errMsg)
}

// cancel marks a job cancelled, e.g. on shutdown.
func (q *Queue) cancel(id string) {
	q.finish(id, StatusCancelled, nil, "cancelled before completion")
}

func (q *Queue) finish(id string, status Status, result *Result, errMsg string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.Status = status
	job.Result = result
	job.Error = errMsg
	job.FinishedAt = &now
}

// Sweep removes terminal jobs whose TTL has expired and returns how many
// were removed.
func (q *Queue) Sweep(now time.Time) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, job := range q.jobs {
		if !job.Status.Terminal() || job.FinishedAt == nil {
			continue
		}
		if now.Sub(*job.FinishedAt) > q.ttl {
			delete(q.jobs, id)
			removed++
		}
	}
	return removed
}
