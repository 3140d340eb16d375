// Package factory assembles runnable agents from YAML definitions.
//
// A definition names a provider, an optional database, and a tool list; the
// factory resolves each into concrete components and returns an agent ready
// to execute queries. Created resources (database handles) are owned by the
// returned CreatedAgent and released by Close.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/agent"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/config"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/db"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/security"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/tools"
)

// CreatedAgent bundles an agent with the resources built for it.
type CreatedAgent struct {
	Agent      *agent.Agent
	Definition *config.AgentDefinition

	adapter db.Adapter
}

// Close releases resources owned by the agent.
func (c *CreatedAgent) Close() error {
	if c.adapter != nil {
		return c.adapter.Close()
	}
	return nil
}

// Ping verifies the agent's backing resources. Agents without a database
// always report healthy.
func (c *CreatedAgent) Ping(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Ping(ctx)
}

// CreateAgent builds an agent from its definition.
func CreateAgent(def *config.AgentDefinition) (*CreatedAgent, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	provider, err := buildProvider(def)
	if err != nil {
		return nil, err
	}

	var adapter db.Adapter
	if def.Database != nil {
		adapter, err = db.Open(db.Config{
			Driver:        def.Database.Driver,
			DSN:           def.Database.DSN,
			AllowedTables: def.Database.AllowedTables,
		})
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", def.Name, err)
		}
	}

	var masker *security.Masker
	if def.MaskPII {
		masker = security.NewMasker()
	}

	toolList, err := buildTools(def, provider, adapter, masker)
	if err != nil {
		closeQuietly(adapter, def.Name)
		return nil, err
	}

	cfg := agent.NewBuilder(def.Name).
		Description(def.Description).
		SystemPrompt(def.SystemPrompt).
		Tools(toolList).
		MaxIterations(def.MaxIterations).
		StructuredOutput(def.StructuredOutput).
		Build()

	a, err := agent.New(cfg, provider)
	if err != nil {
		closeQuietly(adapter, def.Name)
		return nil, err
	}

	slog.Info("agent_created",
		"agent", def.Name,
		"provider", provider.Name(),
		"model", provider.Model(),
		"tools", len(toolList))

	return &CreatedAgent{Agent: a, Definition: def, adapter: adapter}, nil
}

// CreateAgents builds every agent in a definitions map. On any failure the
// agents already built are closed and the error returned.
func CreateAgents(defs map[string]*config.AgentDefinition) (map[string]*CreatedAgent, error) {
	created := make(map[string]*CreatedAgent, len(defs))
	for _, name := range config.ListAgents(defs) {
		ca, err := CreateAgent(defs[name])
		if err != nil {
			for _, built := range created {
				_ = built.Close()
			}
			return nil, err
		}
		created[name] = ca
	}
	return created, nil
}

func buildProvider(def *config.AgentDefinition) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(def.Provider)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", def.Name, err)
	}

	apiKey, err := config.APIKeyFor(def.Provider)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", def.Name, err)
	}

	model := def.Model
	if model == "" {
		model, err = config.ModelFor(def.Provider)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", def.Name, err)
		}
	}

	provider, err := llm.NewProvider(providerType, llm.Options{
		Model:  model,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", def.Name, err)
	}
	return provider, nil
}

func buildTools(def *config.AgentDefinition, provider llm.Provider, adapter db.Adapter, masker *security.Masker) ([]tools.Tool, error) {
	toolList := make([]tools.Tool, 0, len(def.Tools))
	for _, toolDef := range def.Tools {
		tool, err := buildTool(toolDef, def, provider, adapter, masker)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", def.Name, err)
		}
		toolList = append(toolList, tool)
	}
	return toolList, nil
}

func buildTool(toolDef config.ToolDefinition, def *config.AgentDefinition, provider llm.Provider, adapter db.Adapter, masker *security.Masker) (tools.Tool, error) {
	switch toolDef.Type {
	case "execute_sql":
		return tools.NewSQLExecutorTool(adapter, masker), nil
	case "list_tables":
		return tools.NewListTablesTool(adapter), nil
	case "get_schema":
		return tools.NewSchemaIntrospectorTool(adapter), nil
	case "validate_sql":
		return tools.NewSQLValidatorTool(def.Database.AllowedTables), nil
	case "generate_sql":
		dialect := ""
		if def.Database != nil {
			dialect = def.Database.Driver
		}
		return tools.NewSQLGeneratorTool(llm.NewClient(provider), dialect), nil
	case "http_request":
		return tools.NewHTTPTool(toolDef.TimeoutSecs).WithAllowedDomains(toolDef.AllowedDomains), nil
	default:
		return nil, fmt.Errorf("unknown tool type %q", toolDef.Type)
	}
}

func closeQuietly(adapter db.Adapter, agentName string) {
	if adapter == nil {
		return
	}
	if err := adapter.Close(); err != nil {
		slog.Warn("adapter_close_failed", "agent", agentName, "error", err)
	}
}
