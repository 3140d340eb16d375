// Tool dispatcher: name lookup, argument validation, and failure conversion.
//
// Dispatch never returns an error and never lets a panic escape. Every
// failure becomes an observation string the model can read and correct.

package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/model"
)

// Observation prefixes marking failed tool cycles. The reasoning loop also
// recognizes these on observations from tools that report failures in-band.
const (
	ErrPrefix        = "Error:"
	ToolFailedPrefix = "Tool Execution Failed:"
)

// maxEnumeratedTools bounds the tool list included in unknown-tool messages.
const maxEnumeratedTools = 25

// Outcome is the result of dispatching one tool call.
type Outcome struct {
	// Observation is the textual feedback for the model, success or failure.
	Observation string

	// Failed reports whether the cycle should count against the retry budget.
	Failed bool
}

// Dispatcher routes tool calls to registered tools.
// Stateless apart from its registry reference; safe to share within a session.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch executes a tool call and returns the observation.
//
// Unknown names, argument violations, execution errors, and panics all
// come back as failed Outcomes with an explanatory observation.
func (d *Dispatcher) Dispatch(ctx context.Context, call model.ToolCall, traceID string) (outcome Outcome) {
	log := slog.With("trace_id", traceID, "tool_name", call.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("tool_execution_panic", "panic", r)
			outcome = failedOutcome(fmt.Sprintf("%s %v", ToolFailedPrefix, r))
		}
	}()

	tool, exists := d.registry.Get(call.Name)
	if !exists {
		log.Error("tool_not_found", "available_tools", d.registry.Names())
		return failedOutcome(fmt.Sprintf("%s Unknown tool '%s'. Available tools: [%s]",
			ErrPrefix, call.Name, strings.Join(enumerate(d.registry.Names()), " ")))
	}

	args, err := ValidateArgs(tool.ParameterSchema(), call.Args)
	if err != nil {
		log.Warn("tool_validation_failed", "error", err)
		return failedOutcome(fmt.Sprintf("%s %s", ErrPrefix, err.Error()))
	}

	log.Info("tool_execution_start")
	result, err := tool.Execute(WithTrace(ctx, traceID), args)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			log.Warn("tool_validation_failed", "error", err)
			return failedOutcome(fmt.Sprintf("%s %s", ErrPrefix, vErr.Error()))
		}
		log.Error("tool_execution_error", "error", err)
		return failedOutcome(fmt.Sprintf("%s %s", ToolFailedPrefix, err.Error()))
	}

	log.Info("tool_execution_success", "result_preview", preview(result))

	// Compatibility net for tools that report failures in-band.
	if IsErrorObservation(result) {
		return failedOutcome(result)
	}

	return Outcome{Observation: result}
}

// IsErrorObservation reports whether an observation carries a failure marker.
func IsErrorObservation(observation string) bool {
	return strings.HasPrefix(observation, ErrPrefix) ||
		strings.HasPrefix(observation, ToolFailedPrefix)
}

func failedOutcome(observation string) Outcome {
	return Outcome{Observation: observation, Failed: true}
}

func enumerate(names []string) []string {
	if len(names) > maxEnumeratedTools {
		return names[:maxEnumeratedTools]
	}
	return names
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
