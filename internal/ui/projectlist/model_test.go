package projectlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
	"github.com/nhle/taskboard/tests/testutil"
)

func newTestModel(t *testing.T, g *testutil.GraphQLServer) Model {
	t.Helper()

	sess := session.NewMemory()
	require.NoError(t, sess.Save(session.Session{
		APIKey:           "key",
		IsSignedIn:       true,
		OrganizationSlug: "acme",
	}))

	gw := gateway.New(g.URL(), sess, zerolog.Nop())
	return New(gw, sess, keys.DefaultKeyMap(), 80, 24)
}

func serveProjects(g *testutil.GraphQLServer, names ...string) {
	g.Handle("GetProjects", func(map[string]any) (any, string) {
		projects := make([]map[string]any, len(names))
		for i, name := range names {
			projects[i] = map[string]any{
				"id": uuid.NewString(), "name": name, "status": "ACTIVE",
			}
		}
		return map[string]any{"allProjects": projects}, ""
	})
}

func TestFetchLifecycle(t *testing.T) {
	t.Run("init fetch lands in ready", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveProjects(g, "Platform", "Website")

		m := newTestModel(t, g)
		assert.Equal(t, stateLoading, m.state)

		msg := m.Init()()
		m, _ = m.Update(msg)

		assert.Equal(t, stateReady, m.state)
		assert.Len(t, m.Projects(), 2)
	})

	t.Run("failed fetch lands in errored", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		g.Handle("GetProjects", func(map[string]any) (any, string) {
			return nil, "boom"
		})

		m := newTestModel(t, g)
		msg := m.Init()()
		m, _ = m.Update(msg)

		assert.Equal(t, stateErrored, m.state)
		assert.Error(t, m.err)
	})

	t.Run("stale generation is dropped", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveProjects(g, "Platform")

		m := newTestModel(t, g)
		msg := m.Init()()
		m, _ = m.Update(msg)
		require.Equal(t, stateReady, m.state)

		stale := LoadedMsg{
			Gen:      uuid.New(),
			Projects: []model.Project{{ID: "9", Name: "Ghost"}},
		}
		m, _ = m.Update(stale)

		assert.Len(t, m.Projects(), 1)
		assert.Equal(t, "Platform", m.Projects()[0].Name)
	})
}

func TestInvalidateAndRefetch(t *testing.T) {
	t.Run("successful mutation triggers one refetch", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveProjects(g, "Platform")

		m := newTestModel(t, g)
		m, _ = m.Update(m.Init()())
		require.Equal(t, stateReady, m.state)

		before := len(g.Requests())
		m, cmd := m.Update(MutationDoneMsg{})
		assert.Equal(t, stateLoading, m.state)
		require.NotNil(t, cmd)

		m, _ = m.Update(cmd())
		assert.Equal(t, stateReady, m.state)
		assert.Len(t, g.Requests(), before+1)
	})

	t.Run("failed mutation does not refetch", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveProjects(g, "Platform")

		m := newTestModel(t, g)
		m, _ = m.Update(m.Init()())

		m, cmd := m.Update(MutationDoneMsg{Err: assert.AnError})
		assert.Equal(t, stateReady, m.state)
		assert.Nil(t, cmd)
	})
}
