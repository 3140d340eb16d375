// Agent configuration types.

package agent

import (
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/tools"
)

// DefaultMaxIterations is the retry budget applied when none is configured.
const DefaultMaxIterations = 10

// Config holds agent configuration.
type Config struct {
	// Name is a unique identifier for the agent.
	Name string

	// Description explains what this agent does (shown in agent listings).
	Description string

	// SystemPrompt guides the agent's behavior. Rendered together with the
	// tool catalogue and response-format rules; see BuildSystemPrompt.
	SystemPrompt string

	// Tools available to this agent.
	Tools []tools.Tool

	// MaxIterations bounds the number of failed cycles before the agent
	// gives up. Zero means DefaultMaxIterations.
	MaxIterations int

	// StructuredOutput asks providers to constrain responses to JSON
	// objects when they support it.
	StructuredOutput bool
}
