// Agent definitions loaded from YAML files.
//
// One file per agent. Values support ${VAR} and ${VAR:default} environment
// substitution so definitions stay in version control while secrets stay in
// the environment.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// AgentDefinition describes one agent as declared in YAML.
type AgentDefinition struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	SystemPrompt string `yaml:"system_prompt"`

	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	MaxIterations    int  `yaml:"max_iterations"`
	StructuredOutput bool `yaml:"structured_output"`

	Database *DatabaseDefinition `yaml:"database,omitempty"`
	Tools    []ToolDefinition    `yaml:"tools"`

	// MaskPII enables output masking on data-returning tools.
	MaskPII bool `yaml:"mask_pii"`
}

// DatabaseDefinition configures the agent's database adapter.
type DatabaseDefinition struct {
	Driver        string   `yaml:"driver"`
	DSN           string   `yaml:"dsn"`
	AllowedTables []string `yaml:"allowed_tables"`
}

// ToolDefinition configures one tool attached to an agent.
type ToolDefinition struct {
	Type string `yaml:"type"`

	// TimeoutSecs applies to tools that perform I/O (http_request).
	TimeoutSecs uint64 `yaml:"timeout_secs,omitempty"`

	// AllowedDomains restricts http_request targets.
	AllowedDomains []string `yaml:"allowed_domains,omitempty"`
}

// LoadAgentDefinition reads and validates one agent definition file.
func LoadAgentDefinition(path string) (*AgentDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent definition: %w", err)
	}

	substituted := substituteEnv(string(data))

	var def AgentDefinition
	if err := yaml.Unmarshal([]byte(substituted), &def); err != nil {
		return nil, fmt.Errorf("parse agent definition %s: %w", filepath.Base(path), err)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent definition %s: %w", filepath.Base(path), err)
	}
	return &def, nil
}

// LoadAgentDefinitions reads every .yaml/.yml file in dir, keyed by agent name.
func LoadAgentDefinitions(dir string) (map[string]*AgentDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read agent directory: %w", err)
	}

	defs := make(map[string]*AgentDefinition)
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		def, err := LoadAgentDefinition(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, exists := defs[def.Name]; exists {
			return nil, fmt.Errorf("duplicate agent name %q in %s", def.Name, entry.Name())
		}
		defs[def.Name] = def
	}
	return defs, nil
}

// Validate checks the definition for structural errors.
func (d *AgentDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if _, err := getProviderInfo(normalizeProvider(d.Provider)); err != nil {
		return err
	}
	if d.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}

	for i, tool := range d.Tools {
		if tool.Type == "" {
			return fmt.Errorf("tools[%d]: type is required", i)
		}
		if requiresDatabase(tool.Type) && d.Database == nil {
			return fmt.Errorf("tools[%d]: %s requires a database section", i, tool.Type)
		}
	}

	if d.Database != nil {
		if d.Database.Driver == "" {
			return fmt.Errorf("database: driver is required")
		}
		if d.Database.DSN == "" {
			return fmt.Errorf("database: dsn is required")
		}
	}
	return nil
}

// ListAgents returns sorted agent names from a definitions map.
func ListAgents(defs map[string]*AgentDefinition) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func requiresDatabase(toolType string) bool {
	switch toolType {
	case "execute_sql", "list_tables", "get_schema", "validate_sql":
		return true
	default:
		return false
	}
}

// substituteEnv replaces ${VAR} and ${VAR:default} references. Unset
// variables without a default become empty strings.
func substituteEnv(text string) string {
	return envVarRe.ReplaceAllStringFunc(text, func(match string) string {
		groups := envVarRe.FindStringSubmatch(match)
		name, fallback := groups[1], groups[2]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return fallback
	})
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
