package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arijit3111w/estateai/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DedupeIDs, convey.ShouldBeTrue)
				convey.So(cfg.RefreshCron, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("ESTATE_ADDR", ":8080")
			t.Setenv("ESTATE_GRID_CELL_SIZE", "0.05")
			t.Setenv("ESTATE_DATASET_STRICT", "true")
			t.Setenv("ESTATE_DEFAULT_TOP_K", "5")
			t.Setenv("ESTATE_DATASET_SOURCE", "https://example.com/homes.csv")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GridCellSize, convey.ShouldEqual, 0.05)
				convey.So(cfg.DatasetStrict, convey.ShouldBeTrue)
				convey.So(cfg.DefaultTopK, convey.ShouldEqual, 5)
				convey.So(cfg.DatasetSource, convey.ShouldEqual, "https://example.com/homes.csv")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeTemp(t, "config.yaml", `
addr: ":9090"
max_top_k: 50
refresh_cron: "@every 1h"
region_min_lat: 49
similarity_weights:
  price: 0.5
  bedrooms: 0.1
  bathrooms: 0.1
  living_area: 0.1
  grade: 0.1
  location: 0.1
`)
			t.Setenv("ESTATE_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 50)
				convey.So(cfg.RefreshCron, convey.ShouldEqual, "@every 1h")
				convey.So(cfg.RegionMinLat, convey.ShouldEqual, 49.0)
				convey.So(cfg.SimilarityWeights.Price, convey.ShouldEqual, 0.5)
			})

			convey.Convey("And environment variables override file values", func() {
				t.Setenv("ESTATE_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with a .env file", func() {
			path := writeTemp(t, "app.env", "ESTATE_ADDR=:6060\nESTATE_LOG_LEVEL=debug\nOTHER=ignored\n")
			t.Setenv("ESTATE_ENV_FILE", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})

			convey.Convey("And the YAML file takes precedence over it", func() {
				t.Setenv("ESTATE_CONFIG", writeTemp(t, "c.yaml", "addr: \":5050\"\n"))
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5050")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the .env file does not exist", func() {
			t.Setenv("ESTATE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			t.Setenv("ESTATE_CONFIG", writeTemp(t, "bad.yaml", "addr: [unterminated\n"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the YAML file does not exist", func() {
			t.Setenv("ESTATE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a numeric env var does not parse", func() {
			t.Setenv("ESTATE_MAX_TOP_K", "lots")
			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a value fails validation", func() {
			t.Setenv("ESTATE_GRID_CELL_SIZE", "-1")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// clearConfigEnvVars unsets every ESTATE_ variable for the duration of the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name := kv
		for i := range kv {
			if kv[i] == '=' {
				name = kv[:i]
				break
			}
		}
		if len(name) > 7 && name[:7] == "ESTATE_" {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
	t.Setenv("ESTATE_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
