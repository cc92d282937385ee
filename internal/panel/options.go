package panel

import (
	"time"

	"github.com/guidepost/panel/internal/adapters/snapshot"
	"github.com/guidepost/panel/internal/bus"
	"github.com/guidepost/panel/internal/domain/eventlog"
	"github.com/guidepost/panel/pkg/logger"
)

// Option applies a configuration option to the Panel.
type Option func(*Panel)

// WithSnapshotStore sets the persistence backend.
func WithSnapshotStore(s snapshot.Store) Option {
	return func(p *Panel) {
		if s != nil {
			p.store = s
		}
	}
}

// WithSessionKey sets the session this panel persists under.
func WithSessionKey(key string) Option {
	return func(p *Panel) {
		if key != "" {
			p.sessionKey = key
		}
	}
}

// WithLogger sets a custom logger for the panel.
func WithLogger(l logger.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBus sets a pre-built bus, letting callers subscribe before the first
// mutation fires.
func WithBus(b *bus.Bus) Option {
	return func(p *Panel) {
		if b != nil {
			p.bus = b
		}
	}
}

// WithEventLogCap bounds the audit log.
func WithEventLogCap(n int) Option {
	return func(p *Panel) {
		p.log = eventlog.New(eventlog.WithMaxEntries(n))
	}
}

// WithClock overrides the time source. Tests use this for deterministic
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		if now != nil {
			p.now = now
		}
	}
}
