// Package jobs provides asynchronous agent execution.
//
// Queries are accepted as jobs, processed by a worker pool, and their
// results held in memory until a TTL expires. An optional callback URL is
// notified when a job reaches a terminal state.
package jobs

import (
	"time"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Request describes the work a job carries.
type Request struct {
	Agent       string         `json:"agent"`
	Query       string         `json:"query"`
	Context     map[string]any `json:"context,omitempty"`
	CallbackURL string         `json:"callback_url,omitempty"`
}

// Result is the outcome of a completed job.
type Result struct {
	Answer          string         `json:"answer"`
	Kind            string         `json:"kind"`
	TraceID         string         `json:"trace_id"`
	ExecutionTimeMs uint64         `json:"execution_time_ms"`
	LLMCalls        int            `json:"llm_calls"`
	TokenUsage      llm.TokenUsage `json:"token_usage"`
}

// Job is one queued execution and its state.
type Job struct {
	ID      string  `json:"id"`
	Status  Status  `json:"status"`
	Request Request `json:"request"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// clone returns a copy safe to hand to callers while the job keeps mutating.
func (j *Job) clone() *Job {
	copied := *j
	if j.Result != nil {
		result := *j.Result
		copied.Result = &result
	}
	return &copied
}
