// Tool registry with per-agent registration.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Prompt-facing catalogue formatting hidden
//
// Each agent owns its registry; there is no process-wide registry.

package tools

import (
	"fmt"
	"sort"
	"strings"
)

// Registry manages the tools available to one agent.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a new tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool exists in the registry.
func (r *Registry) Has(name string) bool {
	_, exists := r.tools[name]
	return exists
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalogue returns a formatted description of all tools for LLM prompts,
// in registration order.
func (r *Registry) Catalogue() string {
	if len(r.order) == 0 {
		return "No tools available."
	}

	var entries []string
	for _, name := range r.order {
		tool := r.tools[name]

		schema := tool.ParameterSchema()
		paramNames := make([]string, 0, len(schema))
		for p := range schema {
			paramNames = append(paramNames, p)
		}
		sort.Strings(paramNames)

		var params []string
		for _, p := range paramNames {
			spec := schema[p]
			requirement := "optional"
			if spec.Required {
				requirement = "required"
			}
			params = append(params, fmt.Sprintf("    - %s (%s, %s): %s",
				p, spec.Type, requirement, spec.Description))
		}

		paramStr := "    - No parameters"
		if len(params) > 0 {
			paramStr = strings.Join(params, "\n")
		}

		entries = append(entries, fmt.Sprintf("- **%s**: %s\n  Parameters:\n%s",
			name, tool.Description(), paramStr))
	}

	return strings.Join(entries, "\n")
}
