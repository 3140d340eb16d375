package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/agent"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/config"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/factory"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/jobs"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/llm"
)

// echoProvider always finishes immediately, echoing the user query.
type echoProvider struct{}

func (echoProvider) Name() string  { return "echo" }
func (echoProvider) Model() string { return "echo-model" }

func (echoProvider) Chat(_ context.Context, messages []llm.ChatMessage, _ llm.ChatOptions) (llm.Response, error) {
	query := messages[1].Content
	content := fmt.Sprintf(`{"thought":"done","tool_call":{"name":"finish","args":{"answer":"echo: %s"}}}`, query)
	return llm.Response{Content: content}, nil
}

func newTestServer(t *testing.T) (*Server, *jobs.Manager) {
	t.Helper()

	a, err := agent.New(agent.Config{
		Name:         "echo-agent",
		Description:  "Echoes queries",
		SystemPrompt: "You echo.",
	}, echoProvider{})
	require.NoError(t, err)

	agents := map[string]*factory.CreatedAgent{
		"echo-agent": {
			Agent:      a,
			Definition: &config.AgentDefinition{Name: "echo-agent", Provider: "ollama"},
		},
	}

	queue := jobs.NewQueue(8, time.Hour)
	manager := jobs.NewManager(queue, func(ctx context.Context, req jobs.Request) (agent.Response, error) {
		created, ok := agents[req.Agent]
		if !ok {
			return agent.Response{}, fmt.Errorf("unknown agent %q", req.Agent)
		}
		return created.Agent.Execute(ctx, req.Query, req.Context), nil
	}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = manager.Start(ctx) }()

	return NewServer(agents, manager), manager
}

func doRequest(t *testing.T, handler http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Agents map[string]string `json:"agents"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Agents["echo-agent"])
}

func TestListAgents(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodGet, "/agents", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Agents []agentInfo `json:"agents"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Agents, 1)
	assert.Equal(t, "echo-agent", body.Agents[0].Name)
}

func TestGetAgentNotFound(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodGet, "/agents/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryJSONBody(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodPost, "/agents/echo-agent/query",
		"application/json", `{"query":"hello"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body queryResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "echo: hello", body.Answer)
	assert.Equal(t, "answer", body.Kind)
	assert.NotEmpty(t, body.TraceID)
}

func TestQueryFormBody(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	form := url.Values{"query": {"from a form"}}
	rec := doRequest(t, handler, http.MethodPost, "/agents/echo-agent/query",
		"application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusOK, rec.Code)

	var body queryResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "echo: from a form", body.Answer)
}

func TestQueryURLParameter(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodGet,
		"/agents/echo-agent/query?query=plain+get", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body queryResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "echo: plain get", body.Answer)
}

func TestQueryMissingQuery(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodPost, "/agents/echo-agent/query",
		"application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryUnknownAgent(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodPost, "/agents/ghost/query",
		"application/json", `{"query":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodPost, "/jobs",
		"application/json", `{"agent":"echo-agent","query":"async hello"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var submitted jobs.Job
	decodeBody(t, rec, &submitted)
	require.NotEmpty(t, submitted.ID)

	deadline := time.After(5 * time.Second)
	for {
		rec = doRequest(t, handler, http.MethodGet, "/jobs/"+submitted.ID, "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var job jobs.Job
		decodeBody(t, rec, &job)
		if job.Status.Terminal() {
			assert.Equal(t, jobs.StatusCompleted, job.Status)
			break
		}

		select {
		case <-deadline:
			t.Fatal("job did not complete")
		case <-time.After(10 * time.Millisecond):
		}
	}

	rec = doRequest(t, handler, http.MethodGet, "/jobs/"+submitted.ID+"/result", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Status jobs.Status  `json:"status"`
		Result *jobs.Result `json:"result"`
	}
	decodeBody(t, rec, &result)
	require.NotNil(t, result.Result)
	assert.Equal(t, "echo: async hello", result.Result.Answer)
}

func TestSubmitJobUnknownAgent(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodPost, "/jobs",
		"application/json", `{"agent":"ghost","query":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobNotFound(t *testing.T) {
	server, _ := newTestServer(t)
	handler := server.Handler([]string{"*"})

	rec := doRequest(t, handler, http.MethodGet, "/jobs/unknown-id", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
