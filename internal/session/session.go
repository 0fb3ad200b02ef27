// Package session holds the persisted auth record for the signed-in
// organization: the API key and the organization's identity. The record
// is written on successful sign-up or login and cleared on logout.
package session

import "sync"

// Session is a snapshot of the persisted auth record. Values are copies;
// mutating a returned Session never changes the store.
type Session struct {
	APIKey            string `json:"apiKey"`
	IsSignedIn        bool   `json:"isSignedIn"`
	OrganizationName  string `json:"organizationName"`
	OrganizationEmail string `json:"organizationEmail"`
	OrganizationSlug  string `json:"organizationSlug"`
}

// Reader is the read-only view consumed by the gateway client, which
// takes a fresh snapshot before every outbound request.
type Reader interface {
	Current() Session
}

// Store persists the session record across sign-in, sign-up and
// sign-out. Implementations are safe for use from multiple goroutines.
type Store interface {
	Reader
	Save(Session) error
	Clear() error
}

// Memory is an in-process Store. It backs tests and serves as a fallback
// when no keyring backend is available; sessions then last one run.
type Memory struct {
	mu  sync.Mutex
	cur Session
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Current returns a snapshot of the stored session.
func (m *Memory) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Save replaces the stored session.
func (m *Memory) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s
	return nil
}

// Clear resets the store to a signed-out state.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = Session{}
	return nil
}
