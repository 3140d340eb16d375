// Package agent provides the reasoning-loop agent implementation.
//
// Contains the response and metadata types returned by agent execution.
package agent

import (
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/model"
)

// ResponseKind indicates how an execution ended.
type ResponseKind int

const (
	// KindAnswer means the agent terminated with a tool-produced answer.
	KindAnswer ResponseKind = iota

	// KindExhausted means the iteration budget ran out.
	KindExhausted

	// KindCancelled means the caller's context was cancelled.
	KindCancelled

	// KindFailed means an unexpected failure escaped the loop boundary.
	KindFailed
)

// String returns the kind's name for logging and API payloads.
func (k ResponseKind) String() string {
	switch k {
	case KindAnswer:
		return "answer"
	case KindExhausted:
		return "exhausted"
	case KindCancelled:
		return "cancelled"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metadata contains metadata about one agent execution.
type Metadata struct {
	TraceID         string
	AgentName       string
	ExecutionTimeMs uint64
	TokenUsage      llm.TokenUsage
	LLMCalls        int

	// Iterations is the number of failed cycles consumed.
	Iterations int

	// ToolSteps is the number of successful non-terminal tool dispatches.
	ToolSteps int
}

// Response represents the result of one agent execution.
type Response struct {
	Kind     ResponseKind
	Answer   string
	Steps    []model.Step
	Metadata Metadata
}

// Text returns the user-facing answer string regardless of kind.
func (r Response) Text() string {
	return r.Answer
}

// IsAnswer checks whether the response carries a genuine tool-produced answer.
func (r Response) IsAnswer() bool {
	return r.Kind == KindAnswer
}
