// System prompt rendering.
//
// The loop treats the rendered prompt as an opaque string; everything about
// its layout lives here.

package agent

import (
	"fmt"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/tools"
)

// TerminalToolName is the tool name that ends the loop with a final answer.
const TerminalToolName = "finish"

// BuildSystemPrompt renders the full system prompt: agent identity, tool
// catalogue, the terminal tool, and the response-format rules.
func BuildSystemPrompt(config Config, registry *tools.Registry) string {
	basePrompt := config.SystemPrompt
	if basePrompt == "" {
		basePrompt = fmt.Sprintf(
			"You are an agent named %s. Use the available tools to answer the user's question.",
			config.Name)
	}

	return fmt.Sprintf(
		`%s

Available Tools:
%s
- **%s**: Call this tool when you have the final answer
  Parameters:
    - answer (string, required): The final answer to the user's question

You have a maximum of %d attempts.
%s

Use exactly one tool call per response. When you have the final answer, call the '%s' tool with it.`,
		basePrompt,
		registry.Catalogue(),
		TerminalToolName,
		config.MaxIterations,
		responseFormatHint,
		TerminalToolName,
	)
}
