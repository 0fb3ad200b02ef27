// Package gateway is the single point of outbound communication with the
// GraphQL API. It serializes typed operations onto the wire, attaches the
// organization's API key where required, and normalizes failures into the
// TransportError / ProtocolError / AuthError taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/taskboard/internal/session"
)

// DefaultTimeout bounds every request when no custom http.Client is
// supplied.
const DefaultTimeout = 30 * time.Second

// apiKeyHeader carries the organization's shared-secret credential.
const apiKeyHeader = "X-API-Key"

// unauthenticatedOps names the operations that must be sent without the
// API key header even when a key is present in the session store. The
// server rejects any other unauthenticated request.
var unauthenticatedOps = map[string]bool{
	opSignUpOrganization: true,
	opLoginOrganization:  true,
}

// Client is a thin GraphQL-over-HTTP client. Every operation is a POST of
// {query, variables} to one endpoint; the operation name and kind live in
// the document, not in routing. The client performs no retries, caching,
// or request deduplication.
type Client struct {
	endpoint   string
	session    session.Reader
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a Client for the given endpoint. The session reader is
// consulted for the API key on every authenticated request; pass an
// empty store for a client that only performs sign-up and login.
func New(endpoint string, sess session.Reader, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		session:  sess,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

// WithHTTPClient replaces the underlying http.Client, mainly so tests
// and callers with custom timeouts can inject one.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message   string          `json:"message"`
	Locations json.RawMessage `json:"locations,omitempty"`
	Path      json.RawMessage `json:"path,omitempty"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do executes one operation and decodes the envelope's data field into
// result. The operation name decides whether the API key is attached.
func (c *Client) do(
	ctx context.Context,
	operation string,
	query string,
	variables map[string]any,
	result any,
) error {
	body, err := json.Marshal(graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", operation, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if !unauthenticatedOps[operation] {
		if key := c.session.Current().APIKey; key != "" {
			req.Header.Set(apiKeyHeader, key)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logOutcome(operation, started, err)
		return &TransportError{Err: fmt.Errorf("executing %s: %w", operation, err)}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		c.logOutcome(operation, started, readErr)
		return &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("reading %s response: %w", operation, readErr),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		terr := &TransportError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(respBody),
		}
		c.logOutcome(operation, started, terr)
		return terr
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		uerr := fmt.Errorf("unmarshaling %s response: %w", operation, err)
		c.logOutcome(operation, started, uerr)
		return uerr
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		perr := &ProtocolError{Messages: messages}
		c.logOutcome(operation, started, perr)
		return perr
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		perr := &ProtocolError{Messages: []string{"no data returned"}}
		c.logOutcome(operation, started, perr)
		return perr
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			uerr := fmt.Errorf("decoding %s payload: %w", operation, err)
			c.logOutcome(operation, started, uerr)
			return uerr
		}
	}

	c.logOutcome(operation, started, nil)
	return nil
}

// serverMessage extracts the error messages some non-2xx responses carry
// in a GraphQL-style errors list (the auth middleware does this for 401s).
func serverMessage(body []byte) string {
	var envelope graphQLEnvelope
	if json.Unmarshal(body, &envelope) != nil || len(envelope.Errors) == 0 {
		return ""
	}
	messages := make([]string, len(envelope.Errors))
	for i, e := range envelope.Errors {
		messages[i] = e.Message
	}
	return strings.Join(messages, ", ")
}

func (c *Client) logOutcome(operation string, started time.Time, err error) {
	evt := c.logger.Debug()
	if err != nil {
		evt = c.logger.Error().Err(err)
	}
	evt.Str("operation", operation).
		Dur("duration", time.Since(started)).
		Msg("graphql call")
}
