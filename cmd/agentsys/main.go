// Package main provides the agentsys CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/agent"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/api"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/config"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/factory"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/jobs"
)

var (
	// Global flags
	agentsDir string
	logLevel  string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "agentsys",
		Short: "Create and run LLM agents from YAML definitions",
		Long: `agentsys turns YAML agent definitions into running agents.

Each agent executes a bounded reasoning loop over its configured tools
(SQL access, schema introspection, HTTP fetch) against the configured
LLM provider. Agents are served over HTTP or run one-off from the CLI.`,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&agentsDir, "agents-dir", "d", "agents", "Directory containing agent YAML definitions")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve all defined agents over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.New("ollama")
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Server.Addr = addr
			}

			defs, err := config.LoadAgentDefinitions(agentsDir)
			if err != nil {
				return err
			}
			if len(defs) == 0 {
				return fmt.Errorf("no agent definitions found in %s", agentsDir)
			}

			agents, err := factory.CreateAgents(defs)
			if err != nil {
				return err
			}
			defer func() {
				for _, created := range agents {
					_ = created.Close()
				}
			}()

			queue := jobs.NewQueue(settings.Jobs.QueueSize, settings.Jobs.ResultTTL)
			manager := jobs.NewManager(queue, func(ctx context.Context, req jobs.Request) (agent.Response, error) {
				created, ok := agents[req.Agent]
				if !ok {
					return agent.Response{}, fmt.Errorf("unknown agent %q", req.Agent)
				}
				return created.Agent.Execute(ctx, req.Query, req.Context), nil
			}, settings.Jobs.Workers)

			server := api.NewServer(agents, manager)
			httpServer := &http.Server{
				Addr:    settings.Server.Addr,
				Handler: server.Handler(settings.Server.AllowedOrigins),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, gCtx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return manager.Start(gCtx)
			})

			g.Go(func() error {
				slog.Info("api_server_starting", "addr", settings.Server.Addr, "agents", len(agents))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return fmt.Errorf("api server failed: %w", err)
				}
				return nil
			})

			g.Go(func() error {
				<-gCtx.Done()
				slog.Info("api_server_shutting_down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides SERVER_ADDR)")
	return cmd
}

func runCmd() *cobra.Command {
	var agentName string

	cmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Run one query against a defined agent and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := config.LoadAgentDefinitions(agentsDir)
			if err != nil {
				return err
			}

			def, ok := defs[agentName]
			if !ok {
				return fmt.Errorf("agent %q not found in %s (available: %v)",
					agentName, agentsDir, config.ListAgents(defs))
			}

			created, err := factory.CreateAgent(def)
			if err != nil {
				return err
			}
			defer created.Close()

			answer, err := created.Agent.Run(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&agentName, "agent", "n", "", "Agent name to run")
	_ = cmd.MarkFlagRequired("agent")
	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List defined agents",
		RunE: func(*cobra.Command, []string) error {
			defs, err := config.LoadAgentDefinitions(agentsDir)
			if err != nil {
				return err
			}
			for _, name := range config.ListAgents(defs) {
				def := defs[name]
				fmt.Printf("%-24s %s (provider: %s, tools: %d)\n",
					name, def.Description, def.Provider, len(def.Tools))
			}
			return nil
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List supported tool types",
		Run: func(*cobra.Command, []string) {
			tools := map[string]string{
				"execute_sql":  "Execute a SQL query against the agent's database",
				"list_tables":  "List tables the agent may access",
				"get_schema":   "Show CREATE TABLE statements for allowed tables",
				"validate_sql": "Validate a query against the table allow-list",
				"generate_sql": "Generate a SQL query from a natural language question",
				"http_request": "Make HTTP GET or POST requests",
			}
			names := make([]string, 0, len(tools))
			for name := range tools {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%-16s %s\n", name, tools[name])
			}
		},
	}
}
