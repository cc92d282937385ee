// Package eventlog keeps an append-only record of every contract publication
// and journey transition. The log is observational: it serves audit reads and
// UI cache invalidation, and state is never reconstructed by replaying it.
package eventlog

import (
	"sync"
	"time"
)

// Event types appended by the panel.
const (
	TypeRecommendationUpdated = "care_recommendation.updated"
	TypeFinancialUpdated      = "financial_profile.updated"
	TypeAppointmentUpdated    = "advisor_appointment.updated"
	TypeProductCompleted      = "product.completed"
	TypeJourneyUnlocked       = "journey.unlocked"
)

// Event is one log entry. Payload carries at minimum the affected product id
// and new status.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// Log is a bounded append-only event list. When the bound is exceeded the
// oldest entries are dropped; truncation never affects store correctness.
type Log struct {
	mu         sync.RWMutex
	events     []Event
	maxEntries int
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithMaxEntries bounds the log; zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		l.maxEntries = n
	}
}

// New creates an event log.
func New(opts ...Option) *Log {
	l := &Log{
		maxEntries: 1000,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records an event, truncating from the front when over the bound.
func (l *Log) Append(eventType string, ts time.Time, payload map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, Event{Type: eventType, Timestamp: ts, Payload: payload})
	if l.maxEntries > 0 && len(l.events) > l.maxEntries {
		overflow := len(l.events) - l.maxEntries
		l.events = append([]Event(nil), l.events[overflow:]...)
	}
}

// Events returns a copy of the current entries, oldest first.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event(nil), l.events...)
}

// Len returns the current number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
