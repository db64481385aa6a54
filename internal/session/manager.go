package session

import (
	"sync"
	"time"
)

type entry struct {
	session   *BookingSession
	updatedAt time.Time
}

// Manager tracks live booking sessions by ID with an idle timeout. Each
// session is single-owner; the manager only guards its own map.
type Manager struct {
	entries map[string]*entry
	mu      sync.Mutex
	timeout time.Duration
}

// NewManager creates a session manager with the given idle timeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Manager{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Put registers a session.
func (m *Manager) Put(bs *BookingSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[bs.ID] = &entry{session: bs, updatedAt: time.Now()}
}

// Get returns a live session or nil, refreshing its idle clock.
func (m *Manager) Get(id string) *BookingSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	if time.Since(e.updatedAt) > m.timeout {
		delete(m.entries, id)
		return nil
	}
	e.updatedAt = time.Now()
	return e.session
}

// Delete discards a session. Abandoning a selection holds no external
// resources, so dropping the entry is the whole cleanup.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Cleanup removes idle sessions and reports how many were dropped.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if time.Since(e.updatedAt) > m.timeout {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
