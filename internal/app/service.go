// Package service wires the panel's components together: it builds the
// configured snapshot backend, owns the session manager, and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/guidepost/panel/internal/adapters/snapshot"
	"github.com/guidepost/panel/internal/config"
	"github.com/guidepost/panel/internal/panel"
	"github.com/guidepost/panel/internal/session"
	"github.com/guidepost/panel/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Service is the application composition root. One Service runs per process
// and hands out session panels to the transport layer.
type Service struct {
	mu sync.RWMutex

	store    snapshot.Store
	sessions *session.Manager

	backend     string
	snapshotDir string
	redisOpts   *redis.Options
	snapshotTTL time.Duration
	eventLogCap int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSnapshotStore sets a pre-built persistence backend, bypassing the
// config-driven selection. Tests use this with a memory store.
func WithSnapshotStore(s snapshot.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithEventLogCap bounds each session's audit log.
func WithEventLogCap(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.eventLogCap = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// New constructs a Service from configuration. Start must be called before
// handing out panels.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		backend:     cfg.SnapshotBackend,
		snapshotDir: cfg.SnapshotDir,
		eventLogCap: cfg.EventLogMaxEntries,
	}
	if cfg.SnapshotBackend == config.BackendRedis {
		s.redisOpts = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		if cfg.SnapshotTTLHours > 0 {
			s.snapshotTTL = time.Duration(cfg.SnapshotTTLHours) * time.Hour
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the snapshot backend and the session manager. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		store, err := s.buildStore()
		if err != nil {
			return err
		}
		s.store = store
	}
	s.logger.Info(ctx, "snapshot backend ready", logger.String("backend", s.backend))

	s.sessions = session.NewManager(
		session.WithSnapshotStore(s.store),
		session.WithLogger(s.logger),
		session.WithEventLogCap(s.eventLogCap),
	)

	s.started = true
	s.logger.Info(ctx, "panel service started",
		logger.Int("eventLogCap", s.eventLogCap),
	)
	return nil
}

// Stop releases backend resources. Panel state is already durable; there is
// nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "panel service stopped")
}

func (s *Service) buildStore() (snapshot.Store, error) {
	switch s.backend {
	case config.BackendRedis:
		opts := []snapshot.RedisOption{}
		if s.snapshotTTL > 0 {
			opts = append(opts, snapshot.WithTTL(s.snapshotTTL))
		}
		return snapshot.NewRedisStore(redis.NewClient(s.redisOpts), opts...), nil
	case config.BackendFile:
		return snapshot.NewFileStore(s.snapshotDir)
	default:
		return snapshot.NewMemoryStore(), nil
	}
}

// Panel returns the panel for a session key, creating it on first use.
func (s *Service) Panel(key string) *panel.Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions.Panel(key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"snapshotBackend": s.backend,
		"eventLogCap":     s.eventLogCap,
	}
	if s.started {
		stats["activeSessions"] = s.sessions.Len()
	}
	return stats
}
