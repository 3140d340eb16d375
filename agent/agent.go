// Reason-Act-Observe loop implementation.
//
// All agent execution goes through this module. Each cycle asks the model
// for a tool call, interprets the response, and either terminates, runs the
// tool, or feeds a corrective observation back into the conversation.
//
// Failure accounting: iteration_count increases only on failed cycles
// (parse failure, bad tool-call shape, tool failure, infrastructure
// failure); step_count increases only on successful non-terminal tool
// dispatches. The loop ends on a terminal tool call or when iteration_count
// reaches the budget.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/internal/jsonextract"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/model"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/tools"
)

// ExhaustionMessage is returned when the iteration budget runs out.
const ExhaustionMessage = "Sorry, I was unable to answer your question after several attempts. Please try rephrasing your question."

// defaultAnswer is returned when the terminal tool omits its answer argument.
const defaultAnswer = "I have finished processing."

// Agent executes queries using a bounded reasoning loop.
type Agent struct {
	config       Config
	llmClient    *llm.Client
	toolRegistry *tools.Registry
	dispatcher   *tools.Dispatcher
	systemPrompt string
}

// New creates a new agent with the given configuration and provider.
// Duplicate tool names are an error; the registry must be unambiguous.
func New(config Config, provider llm.Provider) (*Agent, error) {
	if config.MaxIterations <= 0 {
		config.MaxIterations = DefaultMaxIterations
	}

	registry := tools.NewRegistry()
	for _, tool := range config.Tools {
		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("agent %q: %w", config.Name, err)
		}
	}

	return &Agent{
		config:       config,
		llmClient:    llm.NewClient(provider),
		toolRegistry: registry,
		dispatcher:   tools.NewDispatcher(registry),
		systemPrompt: BuildSystemPrompt(config, registry),
	}, nil
}

// WithClient overrides the LLM client, e.g. to change the retry budget.
func (a *Agent) WithClient(client *llm.Client) *Agent {
	a.llmClient = client
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.config.Name
}

// Description returns the agent's description.
func (a *Agent) Description() string {
	return a.config.Description
}

// Tools returns the names of the agent's registered tools.
func (a *Agent) Tools() []string {
	return a.toolRegistry.Names()
}

// session is the mutable state of one Execute call. Owned by a single
// goroutine; never shared.
type session struct {
	traceID        string
	history        []model.Step
	iterationCount int
	stepCount      int
	totalUsage     llm.TokenUsage
	llmCalls       int
}

// Run executes a query and returns the answer as a plain string.
//
// The string is always meaningful: the tool-produced answer, the fixed
// exhaustion message, or a short failure description. The error is reserved
// for future use and is currently always nil; callers that need to
// distinguish outcomes should use Execute.
func (a *Agent) Run(ctx context.Context, query string, contextData map[string]any) (string, error) {
	return a.Execute(ctx, query, contextData).Text(), nil
}

// Execute runs a query through the reasoning loop and returns a tagged
// Response. It never panics; unexpected failures produce a KindFailed
// response.
func (a *Agent) Execute(ctx context.Context, query string, contextData map[string]any) (response Response) {
	startTime := time.Now()
	sess := &session{traceID: uuid.NewString()}
	log := slog.With("trace_id", sess.traceID, "agent", a.config.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("agent_panic", "panic", r)
			response = a.finish(sess, startTime, KindFailed,
				fmt.Sprintf("Agent execution failed: %v", r))
		}
	}()

	log.Info("agent_start", "query_preview", jsonextract.Preview(query), "max_iterations", a.config.MaxIterations)

	userMessage := a.buildUserMessage(query, contextData)

	for sess.iterationCount < a.config.MaxIterations {
		if ctx.Err() != nil {
			log.Warn("agent_cancelled", "error", ctx.Err())
			return a.finish(sess, startTime, KindCancelled,
				fmt.Sprintf("Agent execution failed: %v", ctx.Err()))
		}

		answer, done := a.cycle(ctx, sess, userMessage, log)
		if done {
			log.Info("agent_finished",
				"iterations", sess.iterationCount,
				"steps", sess.stepCount,
				"llm_calls", sess.llmCalls)
			return a.finish(sess, startTime, KindAnswer, answer)
		}
	}

	log.Warn("agent_exhausted",
		"iterations", sess.iterationCount,
		"steps", sess.stepCount,
		"llm_calls", sess.llmCalls)
	return a.finish(sess, startTime, KindExhausted, ExhaustionMessage)
}

// cycle runs one loop cycle. It returns (answer, true) on terminal
// completion; otherwise it appends a step to the session history and
// returns false. Panics inside the cycle are absorbed and counted as a
// failed iteration.
func (a *Agent) cycle(ctx context.Context, sess *session, userMessage string, log *slog.Logger) (answer string, done bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("cycle_panic", "panic", r)
			a.recordFailure(sess, map[string]any{"panic": fmt.Sprint(r)},
				InfrastructureFailureMessage(fmt.Errorf("%v", r)))
			answer, done = "", false
		}
	}()

	messages := a.assembleMessages(sess, userMessage)

	resp, err := a.llmClient.Chat(ctx, messages, llm.ChatOptions{
		Temperature: 0,
		JSONFormat:  a.config.StructuredOutput,
	})
	sess.llmCalls++
	if err != nil {
		// Provider failure after its own retry budget. Absorbed: the
		// iteration budget decides when to give up.
		log.Error("model_call_failed", "error", err)
		a.recordFailure(sess, map[string]any{"error": err.Error()},
			InfrastructureFailureMessage(err))
		return "", false
	}
	sess.totalUsage.Add(resp.Usage)

	result, parseErr := Interpret(resp.Content)
	if parseErr != nil {
		log.Warn("parse_failed", "reason", parseErr.Reason)
		observation := a.classifyParseError(parseErr)
		a.recordFailure(sess, map[string]any{"reason": parseErr.Reason}, observation)
		return "", false
	}

	call, observation := a.validateCall(result.ToolCall)
	if observation != "" {
		log.Warn("tool_call_malformed")
		a.recordFailure(sess, map[string]any{"reason": "malformed tool_call"}, observation)
		return "", false
	}

	log.Info("tool_call_parsed", "tool_name", call.Name, "thought_preview", jsonextract.Preview(result.Thought))

	if call.Name == TerminalToolName {
		return call.StringArg("answer", defaultAnswer), true
	}

	outcome := a.dispatcher.Dispatch(ctx, call, sess.traceID)
	sess.history = append(sess.history, model.Step{Call: call, Observation: outcome.Observation})
	if outcome.Failed {
		sess.iterationCount++
	} else {
		sess.stepCount++
	}
	return "", false
}

// assembleMessages flattens the session into the full message list sent to
// the model: system and user first, then each historical step as an
// assistant tool-call message followed by its observation.
func (a *Agent) assembleMessages(sess *session, userMessage string) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, 2+2*len(sess.history))
	messages = append(messages,
		llm.SystemMessage(a.systemPrompt),
		llm.UserMessage(userMessage))

	for _, step := range sess.history {
		messages = append(messages,
			llm.AssistantMessage(model.MarshalCall(step.Call)),
			llm.UserMessage("Observation:\n"+step.Observation))
	}
	return messages
}

// buildUserMessage renders the query plus any external context data.
func (a *Agent) buildUserMessage(query string, contextData map[string]any) string {
	if len(contextData) == 0 {
		return query
	}
	data, err := json.Marshal(contextData)
	if err != nil {
		return query
	}
	return fmt.Sprintf("%s\n\nContext data:\n```json\n%s\n```", query, string(data))
}

// validateCall checks the tool_call shape the parser does not guarantee.
// Returns a corrective observation when the shape is invalid.
func (a *Agent) validateCall(raw json.RawMessage) (model.ToolCall, string) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.ToolCall{}, WrongToolCallTypeMessage(jsonTypeName(raw))
	}

	// A non-string name would fail the typed unmarshal below; coach the
	// model about the name field rather than the tool_call shape.
	if rawName, ok := probe["name"]; ok {
		var name string
		if err := json.Unmarshal(rawName, &name); err != nil {
			return model.ToolCall{}, MissingToolNameMessage()
		}
	}

	var call model.ToolCall
	if err := json.Unmarshal(raw, &call); err != nil {
		return model.ToolCall{}, WrongToolCallTypeMessage(jsonTypeName(raw))
	}
	if call.Name == "" {
		return model.ToolCall{}, MissingToolNameMessage()
	}
	if call.Args == nil {
		call.Args = map[string]any{}
	}
	return call, ""
}

// classifyParseError picks the corrective message for a parse failure.
func (a *Agent) classifyParseError(parseErr *ParseError) string {
	if parseErr.Reason == "missing tool_call" {
		return MissingToolCallMessage(parseErr.PresentKeys)
	}
	return ParseFailureMessage(parseErr.Reason, parseErr.Preview)
}

// recordFailure appends a synthetic error step and counts the iteration.
func (a *Agent) recordFailure(sess *session, args map[string]any, observation string) {
	sess.history = append(sess.history, model.Step{
		Call:        model.ErrorCall(args),
		Observation: observation,
	})
	sess.iterationCount++
}

func (a *Agent) finish(sess *session, startTime time.Time, kind ResponseKind, answer string) Response {
	return Response{
		Kind:   kind,
		Answer: answer,
		Steps:  sess.history,
		Metadata: Metadata{
			TraceID:         sess.traceID,
			AgentName:       a.config.Name,
			ExecutionTimeMs: uint64(time.Since(startTime).Milliseconds()),
			TokenUsage:      sess.totalUsage,
			LLMCalls:        sess.llmCalls,
			Iterations:      sess.iterationCount,
			ToolSteps:       sess.stepCount,
		},
	}
}
