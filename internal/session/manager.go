// Package session hands out one panel per session key. Sessions are fully
// isolated: each panel owns its own contracts, journey, event log, bus, and
// persisted snapshot, so no locking spans sessions beyond the registry map.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/guidepost/panel/internal/adapters/snapshot"
	"github.com/guidepost/panel/internal/panel"
	"github.com/guidepost/panel/pkg/logger"
	"github.com/guidepost/panel/pkg/metrics"
)

// Manager lazily creates and caches panels by session key.
type Manager struct {
	mu     sync.Mutex
	panels map[string]*panel.Panel

	store       snapshot.Store
	logger      logger.Logger
	eventLogCap int
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithSnapshotStore sets the persistence backend shared by all sessions.
// Each session still persists under its own key.
func WithSnapshotStore(s snapshot.Store) Option {
	return func(m *Manager) {
		if s != nil {
			m.store = s
		}
	}
}

// WithLogger sets a custom logger passed to every panel.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEventLogCap bounds each session's audit log.
func WithEventLogCap(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.eventLogCap = n
		}
	}
}

// NewManager creates a session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		panels: make(map[string]*panel.Panel),
		store:  snapshot.NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Get()
	}
	return m
}

// Panel returns the panel for key, creating it on first use. An empty key
// gets a fresh anonymous session.
func (m *Manager) Panel(key string) *panel.Panel {
	if key == "" {
		key = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.panels[key]; ok {
		return p
	}

	opts := []panel.Option{
		panel.WithSnapshotStore(m.store),
		panel.WithSessionKey(key),
		panel.WithLogger(m.logger),
	}
	if m.eventLogCap > 0 {
		opts = append(opts, panel.WithEventLogCap(m.eventLogCap))
	}
	p := panel.New(opts...)
	m.panels[key] = p
	metrics.UpdateActiveSessions(len(m.panels))
	return p
}

// Len returns the number of panels currently in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.panels)
}
