package tasklist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
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
	return New(gw, keys.DefaultKeyMap(), 80, 24)
}

func serveTasks(g *testutil.GraphQLServer, titles ...string) {
	g.Handle("GetTasks", func(map[string]any) (any, string) {
		tasks := make([]map[string]any, len(titles))
		for i, title := range titles {
			tasks[i] = map[string]any{
				"id": uuid.NewString(), "title": title, "status": "TODO",
			}
		}
		return map[string]any{"allTasks": tasks}, ""
	})
}

// drain executes cmd and feeds the resulting messages back into the
// model until no commands remain, mirroring the Bubble Tea runtime loop.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		if next != nil {
			queue = append(queue, next)
		}
	}
	return m
}

func TestProjectSelection(t *testing.T) {
	t.Run("starts idle without a project", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		m := newTestModel(t, g)
		assert.Equal(t, stateIdle, m.state)
		assert.Nil(t, m.Project())
	})

	t.Run("selecting a project loads its tasks", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveTasks(g, "First", "Second")

		m := newTestModel(t, g)
		m, cmd := m.SetProject(&model.Project{ID: "7", Name: "Platform"})
		assert.Equal(t, stateLoading, m.state)
		require.NotNil(t, cmd)

		m = drain(t, m, cmd)
		assert.Equal(t, stateReady, m.state)
		assert.Len(t, m.Tasks(), 2)
	})

	t.Run("deselecting clears without a server call", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveTasks(g, "First")

		m := newTestModel(t, g)
		m, cmd := m.SetProject(&model.Project{ID: "7"})
		m = drain(t, m, cmd)
		require.Len(t, m.Tasks(), 1)

		before := len(g.Requests())
		m, _ = m.SetProject(nil)

		assert.Equal(t, stateIdle, m.state)
		assert.Empty(t, m.Tasks())
		assert.Len(t, g.Requests(), before)
	})

	t.Run("response for a superseded selection is dropped", func(t *testing.T) {
		g := testutil.NewGraphQLServer(t)
		serveTasks(g, "Current")

		m := newTestModel(t, g)
		m, _ = m.SetProject(&model.Project{ID: "7"})
		staleGen := m.gen

		// Selection changes before the first fetch resolves.
		m, _ = m.SetProject(&model.Project{ID: "8"})
		currentGen := m.gen
		require.NotEqual(t, staleGen, currentGen)

		// The first fetch now resolves; its generation no longer matches.
		m, _ = m.Update(LoadedMsg{
			Gen:   staleGen,
			Tasks: []model.Task{{ID: "1", Title: "Ghost"}},
		})
		assert.Equal(t, stateLoading, m.state)
		assert.Empty(t, m.Tasks())

		m, _ = m.Update(LoadedMsg{
			Gen:   currentGen,
			Tasks: []model.Task{{ID: "2", Title: "Current"}},
		})
		assert.Equal(t, stateReady, m.state)
		require.Len(t, m.Tasks(), 1)
		assert.Equal(t, "Current", m.Tasks()[0].Title)
	})
}

func TestMutationRefetch(t *testing.T) {
	g := testutil.NewGraphQLServer(t)
	serveTasks(g, "First")

	m := newTestModel(t, g)
	m, cmd := m.SetProject(&model.Project{ID: "7"})
	m = drain(t, m, cmd)
	require.Equal(t, stateReady, m.state)

	before := len(g.Requests())
	m, refetch := m.Update(MutationDoneMsg{})
	assert.Equal(t, stateLoading, m.state)
	require.NotNil(t, refetch)

	m = drain(t, m, refetch)
	assert.Equal(t, stateReady, m.state)
	assert.Len(t, g.Requests(), before+1)
}
