package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guidepost/panel/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the defaults apply", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.SnapshotBackend, ShouldEqual, config.BackendFile)
			So(cfg.SnapshotDir, ShouldEqual, "./data/snapshots")
			So(cfg.EventLogMaxEntries, ShouldEqual, 1000)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PANEL_ADDR", ":7001")
	t.Setenv("PANEL_SNAPSHOT_BACKEND", "redis")
	t.Setenv("PANEL_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("PANEL_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7001")
			So(cfg.SnapshotBackend, ShouldEqual, config.BackendRedis)
			So(cfg.RedisAddr, ShouldEqual, "redis.internal:6379")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}

func TestFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "panel.yaml")
	yaml := "addr: \":7002\"\nsnapshot_backend: memory\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PANEL_CONFIG", path)
	t.Setenv("PANEL_LOG_LEVEL", "error")

	Convey("Given a config file and an env override", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7002")
			So(cfg.SnapshotBackend, ShouldEqual, config.BackendMemory)
		})

		Convey("Then env values override the file", func() {
			So(cfg.LogLevel, ShouldEqual, "error")
		})
	})
}

func TestValidationRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PANEL_SNAPSHOT_BACKEND", "tape")

	Convey("Given an unknown snapshot backend", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with an invalid-config error", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestMissingConfigFile(t *testing.T) {
	t.Setenv("PANEL_CONFIG", "/does/not/exist.yaml")

	Convey("Given a missing config file", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with a load error", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}
