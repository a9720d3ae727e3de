package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BS-European-Championship/ta-relay/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad_Defaults(t *testing.T) {
	Convey("Given no file or environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.CoordinatorURL, ShouldEqual, "ws://127.0.0.1:2053")
			So(cfg.RelayName, ShouldEqual, "ta-relay")
			So(cfg.EventQueueSize, ShouldEqual, 1024)
			So(cfg.BroadcastWriteTimeoutMS, ShouldEqual, 3000)
		})
	})
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("RELAY_ADDR", ":8088")
	t.Setenv("RELAY_COORDINATOR_URL", "ws://tournament.local:2053")
	t.Setenv("RELAY_QUEUE_SIZE", "256")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.CoordinatorURL, ShouldEqual, "ws://tournament.local:2053")
			So(cfg.EventQueueSize, ShouldEqual, 256)

			Convey("And untouched fields keep their defaults", func() {
				So(cfg.RelayName, ShouldEqual, "ta-relay")
			})
		})
	})
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	body := []byte("addr: \":7070\"\nrelay_name: \"finals-relay\"\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELAY_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.RelayName, ShouldEqual, "finals-relay")
		})
	})
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RELAY_CONFIG", path)
	t.Setenv("RELAY_ADDR", ":8088")

	Convey("Given both a file and an env override for the same key", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8088")
		})
	})
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("RELAY_QUEUE_SIZE", "0")

	Convey("Given an invalid queue size", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the invalid-config kind", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("RELAY_CONFIG", "/does/not/exist.yaml")

	Convey("Given a config path that does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load kind", func() {
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}
