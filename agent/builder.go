// Agent builder for fluent configuration.

package agent

import (
	"fmt"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/tools"
)

// Builder provides fluent configuration for creating agents.
type Builder struct {
	name             string
	description      string
	systemPrompt     string
	tools            []tools.Tool
	maxIterations    int
	structuredOutput bool
}

// NewBuilder creates a new agent builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		tools: []tools.Tool{},
	}
}

// Description sets the agent's description.
func (b *Builder) Description(description string) *Builder {
	b.description = description
	return b
}

// SystemPrompt sets the agent's system prompt.
func (b *Builder) SystemPrompt(prompt string) *Builder {
	b.systemPrompt = prompt
	return b
}

// Tool adds a tool to the agent.
func (b *Builder) Tool(tool tools.Tool) *Builder {
	b.tools = append(b.tools, tool)
	return b
}

// Tools adds multiple tools at once.
func (b *Builder) Tools(toolList []tools.Tool) *Builder {
	b.tools = append(b.tools, toolList...)
	return b
}

// MaxIterations sets the iteration budget.
func (b *Builder) MaxIterations(n int) *Builder {
	b.maxIterations = n
	return b
}

// StructuredOutput asks providers to constrain responses to JSON objects.
func (b *Builder) StructuredOutput(enabled bool) *Builder {
	b.structuredOutput = enabled
	return b
}

// Build creates the agent configuration.
func (b *Builder) Build() Config {
	description := b.description
	if description == "" {
		description = fmt.Sprintf("Agent: %s", b.name)
	}

	maxIterations := b.maxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	return Config{
		Name:             b.name,
		Description:      description,
		SystemPrompt:     b.systemPrompt,
		Tools:            b.tools,
		MaxIterations:    maxIterations,
		StructuredOutput: b.structuredOutput,
	}
}

// Name returns the builder's agent name.
func (b *Builder) Name() string {
	return b.name
}

// ToolCount returns the number of tools registered.
func (b *Builder) ToolCount() int {
	return len(b.tools)
}
