// Package testutil provides shared fixtures for gateway and view tests:
// a fake GraphQL endpoint with per-operation handlers and a capture of
// every request it served.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
)

// Request is one captured GraphQL request.
type Request struct {
	Operation string
	Query     string
	Variables map[string]any
	Header    http.Header
}

// Handler produces the data payload for one operation. Returning an
// error string puts it in the envelope's errors list.
type Handler func(vars map[string]any) (data any, errMsg string)

// GraphQLServer is an httptest-backed fake of the API. Handlers are
// registered per operation name; unhandled operations answer with an
// error in the envelope.
type GraphQLServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
}

var operationNameRe = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// NewGraphQLServer starts a fake endpoint that is shut down with the test.
func NewGraphQLServer(t *testing.T) *GraphQLServer {
	t.Helper()

	g := &GraphQLServer{
		handlers: make(map[string]Handler),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Server.Close)
	return g
}

// URL returns the fake endpoint URL.
func (g *GraphQLServer) URL() string {
	return g.Server.URL
}

// Handle registers the handler for an operation name.
func (g *GraphQLServer) Handle(operation string, h Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[operation] = h
}

// Requests returns a copy of all captured requests so far.
func (g *GraphQLServer) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}

// LastRequest returns the most recent captured request, or nil.
func (g *GraphQLServer) LastRequest() *Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return nil
	}
	r := g.requests[len(g.requests)-1]
	return &r
}

func (g *GraphQLServer) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	operation := ""
	if m := operationNameRe.FindStringSubmatch(req.Query); m != nil {
		operation = m[1]
	}

	g.mu.Lock()
	g.requests = append(g.requests, Request{
		Operation: operation,
		Query:     req.Query,
		Variables: req.Variables,
		Header:    r.Header.Clone(),
	})
	h := g.handlers[operation]
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if h == nil {
		writeEnvelope(w, nil, "no handler for operation "+operation)
		return
	}

	data, errMsg := h(req.Variables)
	writeEnvelope(w, data, errMsg)
}

func writeEnvelope(w http.ResponseWriter, data any, errMsg string) {
	envelope := map[string]any{}
	if data != nil {
		envelope["data"] = data
	}
	if errMsg != "" {
		envelope["errors"] = []map[string]string{{"message": errMsg}}
	}
	json.NewEncoder(w).Encode(envelope)
}
