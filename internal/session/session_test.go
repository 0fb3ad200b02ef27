package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("starts signed out", func(t *testing.T) {
		s := NewMemory()
		assert.False(t, s.Current().IsSignedIn)
		assert.Empty(t, s.Current().APIKey)
	})

	t.Run("save then current round-trips", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.Save(Session{
			APIKey:            "key-123",
			IsSignedIn:        true,
			OrganizationName:  "Acme",
			OrganizationEmail: "ops@acme.test",
			OrganizationSlug:  "acme",
		}))

		got := s.Current()
		assert.True(t, got.IsSignedIn)
		assert.Equal(t, "key-123", got.APIKey)
		assert.Equal(t, "acme", got.OrganizationSlug)
	})

	t.Run("current returns a snapshot", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.Save(Session{APIKey: "key", IsSignedIn: true}))

		snap := s.Current()
		snap.APIKey = "tampered"

		assert.Equal(t, "key", s.Current().APIKey)
	})

	t.Run("clear signs out", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.Save(Session{APIKey: "key", IsSignedIn: true}))
		require.NoError(t, s.Clear())

		got := s.Current()
		assert.False(t, got.IsSignedIn)
		assert.Empty(t, got.APIKey)
	})
}
