package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/tests/testutil"
)

func signedInSession(t *testing.T) session.Store {
	t.Helper()
	s := session.NewMemory()
	require.NoError(t, s.Save(session.Session{
		APIKey:            "secret-key",
		IsSignedIn:        true,
		OrganizationName:  "Acme",
		OrganizationEmail: "ops@acme.test",
		OrganizationSlug:  "acme",
	}))
	return s
}

func newClient(g *testutil.GraphQLServer, s session.Reader) *gateway.Client {
	return gateway.New(g.URL(), s, zerolog.Nop())
}

func TestAPIKeyHeader(t *testing.T) {
	t.Run("attached on authenticated operations", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetProjects", func(map[string]any) (any, string) {
			return map[string]any{"allProjects": []model.Project{}}, ""
		})

		c := newClient(g, signedInSession(t))
		_, err := c.GetProjects(context.Background(), "acme")
		require.NoError(t, err)

		req := g.LastRequest()
		require.NotNil(t, req)
		assert.Equal(t, "secret-key", req.Header.Get("X-API-Key"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	})

	t.Run("never attached on sign-up even with a key present", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("SignUpOrganization", func(map[string]any) (any, string) {
			return map[string]any{"signUpOrganization": map[string]any{
				"success": true,
				"message": "Organization created successfully",
				"apiKey":  "new-key",
				"organization": map[string]any{
					"id": "1", "name": "New Org", "slug": "new-org",
					"contactEmail": "new@org.test",
				},
			}}, ""
		})

		c := newClient(g, signedInSession(t))
		res, err := c.SignUpOrganization(
			context.Background(), "New Org", "new@org.test", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "new-key", res.APIKey)

		req := g.LastRequest()
		require.NotNil(t, req)
		assert.Empty(t, req.Header.Get("X-API-Key"))
	})

	t.Run("never attached on login even with a key present", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("LoginOrganization", func(map[string]any) (any, string) {
			return map[string]any{"loginOrganization": map[string]any{
				"success": true,
				"message": "Login successful",
				"apiKey":  "fresh-key",
				"organization": map[string]any{
					"id": "1", "name": "Acme", "slug": "acme",
					"contactEmail": "ops@acme.test",
				},
			}}, ""
		})

		c := newClient(g, signedInSession(t))
		res, err := c.LoginOrganization(
			context.Background(), "ops@acme.test", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "fresh-key", res.APIKey)

		req := g.LastRequest()
		require.NotNil(t, req)
		assert.Empty(t, req.Header.Get("X-API-Key"))
	})
}

func TestProtocolError(t *testing.T) {
	t.Run("200 with errors list fails", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetTasks", func(map[string]any) (any, string) {
			return nil, "Project with ID 99 does not exist"
		})

		c := newClient(g, signedInSession(t))
		_, err := c.GetTasks(context.Background(), "99")
		require.Error(t, err)
		assert.True(t, gateway.IsProtocolError(err))
		assert.Contains(t, err.Error(), "Project with ID 99 does not exist")
	})

	t.Run("200 with no data fails", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetProjects", func(map[string]any) (any, string) {
			return nil, ""
		})

		c := newClient(g, signedInSession(t))
		_, err := c.GetProjects(context.Background(), "acme")
		require.Error(t, err)
		assert.True(t, gateway.IsProtocolError(err))
	})
}

func TestTransportError(t *testing.T) {
	t.Run("non-2xx status carries the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
		t.Cleanup(srv.Close)

		c := gateway.New(srv.URL, session.NewMemory(), zerolog.Nop())
		_, err := c.GetProjects(context.Background(), "acme")
		require.Error(t, err)

		assert.True(t, gateway.IsTransportError(err))
		var te *gateway.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	})

	t.Run("401 surfaces the middleware message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"errors":[{"message":"API key is required"}]}`))
			}))
		t.Cleanup(srv.Close)

		c := gateway.New(srv.URL, session.NewMemory(), zerolog.Nop())
		_, err := c.GetProjects(context.Background(), "acme")
		require.Error(t, err)

		var te *gateway.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
		assert.Contains(t, te.Error(), "API key is required")
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		c := gateway.New(
			"http://127.0.0.1:1/graphql/", session.NewMemory(), zerolog.Nop())
		_, err := c.GetProjects(context.Background(), "acme")
		require.Error(t, err)
		assert.True(t, gateway.IsTransportError(err))
	})
}

func TestAuthError(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	g.Handle("LoginOrganization", func(map[string]any) (any, string) {
		return map[string]any{"loginOrganization": map[string]any{
			"success":      false,
			"message":      "Invalid email or password",
			"apiKey":       nil,
			"organization": nil,
		}}, ""
	})

	c := newClient(g, session.NewMemory())
	_, err := c.LoginOrganization(context.Background(), "ops@acme.test", "wrong")
	require.Error(t, err)

	// Application-level failure, distinct from transport and protocol.
	assert.True(t, gateway.IsAuthError(err))
	assert.False(t, gateway.IsProtocolError(err))
	assert.False(t, gateway.IsTransportError(err))
	assert.Equal(t, "Invalid email or password", err.Error())
}
