// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Snapshot backend names accepted in SnapshotBackend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SnapshotBackend selects where session snapshots persist:
	// memory, file, or redis.
	SnapshotBackend string `koanf:"snapshot_backend"`

	// SnapshotDir is the root directory for the file backend.
	SnapshotDir string `koanf:"snapshot_dir"`

	// RedisAddr, RedisPassword and RedisDB configure the redis backend.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// SnapshotTTLHours expires idle redis sessions. Zero keeps them forever.
	SnapshotTTLHours int `koanf:"snapshot_ttl_hours"`

	// EventLogMaxEntries bounds each session's audit log.
	EventLogMaxEntries int `koanf:"event_log_max_entries"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		SnapshotBackend:    BackendFile,
		SnapshotDir:        "./data/snapshots",
		RedisAddr:          "localhost:6379",
		RedisDB:            0,
		SnapshotTTLHours:   0,
		EventLogMaxEntries: 1000,
	}
	return c
}
