// Package api exposes agents and jobs over HTTP.
//
// Endpoints:
//
//	GET  /health
//	GET  /agents
//	GET  /agents/{name}
//	GET  /agents/{name}/query
//	POST /agents/{name}/query
//	POST /jobs
//	GET  /jobs/{id}
//	GET  /jobs/{id}/result
//
// Query requests accept JSON bodies, form posts, or a bare query-string
// parameter; see request.go.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/factory"
	"github.com/RPN17M2G/Generic-LLM-Agent-Creation-System/jobs"
)

// Server routes HTTP requests to agents and the job manager.
type Server struct {
	agents  map[string]*factory.CreatedAgent
	manager *jobs.Manager
}

// NewServer creates a server over the given agents and job manager.
func NewServer(agents map[string]*factory.CreatedAgent, manager *jobs.Manager) *Server {
	return &Server{agents: agents, manager: manager}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("GET /agents/{name}", s.handleGetAgent)
	mux.HandleFunc("GET /agents/{name}/query", s.handleQuery)
	mux.HandleFunc("POST /agents/{name}/query", s.handleQuery)
	mux.HandleFunc("POST /jobs", s.handleSubmitJob)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /jobs/{id}/result", s.handleGetJobResult)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.agents))
	healthy := true
	for name, created := range s.agents {
		if err := created.Ping(r.Context()); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status, "agents": checks})
}

// agentInfo is the listing payload for one agent.
type agentInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	infos := make([]agentInfo, 0, len(s.agents))
	for _, created := range s.agents {
		infos = append(infos, describeAgent(created))
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": infos})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	created, ok := s.agents[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, describeAgent(created))
}

// queryResponse is the synchronous query payload.
type queryResponse struct {
	Answer          string `json:"answer"`
	Kind            string `json:"kind"`
	TraceID         string `json:"trace_id"`
	ExecutionTimeMs uint64 `json:"execution_time_ms"`
	LLMCalls        int    `json:"llm_calls"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	created, ok := s.agents[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}

	queryReq, err := parseQueryRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := created.Agent.Execute(r.Context(), queryReq.Query, queryReq.Context)
	writeJSON(w, http.StatusOK, queryResponse{
		Answer:          resp.Answer,
		Kind:            resp.Kind.String(),
		TraceID:         resp.Metadata.TraceID,
		ExecutionTimeMs: resp.Metadata.ExecutionTimeMs,
		LLMCalls:        resp.Metadata.LLMCalls,
	})
}

// jobSubmission is the POST /jobs payload.
type jobSubmission struct {
	Agent       string         `json:"agent"`
	Query       string         `json:"query"`
	Context     map[string]any `json:"context,omitempty"`
	CallbackURL string         `json:"callback_url,omitempty"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var submission jobSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if submission.Agent == "" || submission.Query == "" {
		writeError(w, http.StatusBadRequest, "agent and query are required")
		return
	}
	if _, ok := s.agents[submission.Agent]; !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}

	job, err := s.manager.Submit(jobs.Request{
		Agent:       submission.Agent,
		Query:       submission.Query,
		Context:     submission.Context,
		CallbackURL: submission.CallbackURL,
	})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "job queue is full")
			return
		}
		slog.Error("job_submit_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit job")
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.manager.Job(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleGetJobResult(w http.ResponseWriter, r *http.Request) {
	job, err := s.manager.Job(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if !job.Status.Terminal() {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"id":     job.ID,
			"status": job.Status,
		})
		return
	}
	if job.Status != jobs.StatusCompleted {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     job.ID,
			"status": job.Status,
			"error":  job.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     job.ID,
		"status": job.Status,
		"result": job.Result,
	})
}

func describeAgent(created *factory.CreatedAgent) agentInfo {
	return agentInfo{
		Name:        created.Agent.Name(),
		Description: created.Agent.Description(),
		Tools:       created.Agent.Tools(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
