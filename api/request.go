// Query request parsing.
//
// Clients reach the query endpoint from scripts, dashboards, and plain
// browsers, so three request shapes are accepted and sniffed in order:
// a JSON body, an HTML form post, and a bare "query" URL parameter.

package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// queryRequest is the normalized query input.
type queryRequest struct {
	Query   string         `json:"query"`
	Context map[string]any `json:"context,omitempty"`
}

// parseQueryRequest extracts the query from whichever shape the client sent.
func parseQueryRequest(r *http.Request) (queryRequest, error) {
	if r.Method == http.MethodPost {
		switch contentType(r) {
		case "application/json":
			return parseJSONQuery(r)
		case "application/x-www-form-urlencoded", "multipart/form-data":
			return parseFormQuery(r)
		}
	}
	return parseURLQuery(r)
}

func parseJSONQuery(r *http.Request) (queryRequest, error) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return queryRequest{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	if strings.TrimSpace(req.Query) == "" {
		return queryRequest{}, fmt.Errorf("'query' field is required")
	}
	return req, nil
}

func parseFormQuery(r *http.Request) (queryRequest, error) {
	if err := r.ParseForm(); err != nil {
		return queryRequest{}, fmt.Errorf("invalid form body: %w", err)
	}
	query := strings.TrimSpace(r.PostFormValue("query"))
	if query == "" {
		return queryRequest{}, fmt.Errorf("'query' form field is required")
	}
	return queryRequest{Query: query}, nil
}

func parseURLQuery(r *http.Request) (queryRequest, error) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		return queryRequest{}, fmt.Errorf("'query' parameter is required")
	}
	return queryRequest{Query: query}, nil
}

// contentType returns the media type without parameters, lowercased.
func contentType(r *http.Request) string {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mediaType
}
