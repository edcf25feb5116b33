package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/tripfinder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ProviderTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.SearchRatePerMinute, convey.ShouldEqual, 30)
				convey.So(cfg.SearchRateBurst, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TRIP_ADDR", ":8080")
			_ = os.Setenv("TRIP_OPENWEATHER_API_KEY", "ow-key")
			_ = os.Setenv("TRIP_FOURSQUARE_API_KEY", "fsq-key")
			_ = os.Setenv("TRIP_MAX_IN_FLIGHT", "4")
			_ = os.Setenv("TRIP_CATALOG_LATENCY_MIN_MS", "50")
			_ = os.Setenv("TRIP_CATALOG_LATENCY_MAX_MS", "100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.OpenWeatherAPIKey, convey.ShouldEqual, "ow-key")
				convey.So(cfg.FoursquareAPIKey, convey.ShouldEqual, "fsq-key")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 4)
				convey.So(cfg.CatalogLatencyMinMS, convey.ShouldEqual, 50)
				convey.So(cfg.CatalogLatencyMaxMS, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When allowed origins come from the environment as a comma list", func() {
			_ = os.Setenv("TRIP_ALLOWED_ORIGINS", "http://a.example, http://b.example,,")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then each origin is a separate entry", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"http://a.example", "http://b.example"})
			})
		})

		convey.Convey("When a single allowed origin comes from the environment", func() {
			_ = os.Setenv("TRIP_ALLOWED_ORIGINS", "http://localhost:3000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it replaces the default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"http://localhost:3000"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
openweather_base_url: "http://127.0.0.1:9191"
foursquare_base_url: "http://127.0.0.1:9191"
provider_timeout_ms: 2500
allowed_origins:
  - "http://localhost:3000"
  - "http://localhost:9080"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRIP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.OpenWeatherBaseURL, convey.ShouldEqual, "http://127.0.0.1:9191")
				convey.So(cfg.FoursquareBaseURL, convey.ShouldEqual, "http://127.0.0.1:9191")
				convey.So(cfg.ProviderTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.AllowedOrigins, convey.ShouldResemble,
					[]string{"http://localhost:3000", "http://localhost:9080"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_in_flight: 8
provider_timeout_ms: 2500
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRIP_CONFIG", tmpFile)
			_ = os.Setenv("TRIP_ADDR", ":8080")
			_ = os.Setenv("TRIP_MAX_IN_FLIGHT", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 2)
				convey.So(cfg.ProviderTimeoutMS, convey.ShouldEqual, 2500)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("TRIP_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("TRIP_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("TRIP_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with inverted latency bounds", func() {
			_ = os.Setenv("TRIP_CATALOG_LATENCY_MIN_MS", "200")
			_ = os.Setenv("TRIP_CATALOG_LATENCY_MAX_MS", "100")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative fan-out limit", func() {
			_ = os.Setenv("TRIP_MAX_IN_FLIGHT", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("TRIP_PROVIDER_TIMEOUT_MS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"TRIP_CONFIG",
		"TRIP_ADDR",
		"TRIP_OPENWEATHER_API_KEY",
		"TRIP_FOURSQUARE_API_KEY",
		"TRIP_MAX_IN_FLIGHT",
		"TRIP_PROVIDER_TIMEOUT_MS",
		"TRIP_CATALOG_LATENCY_MIN_MS",
		"TRIP_CATALOG_LATENCY_MAX_MS",
		"TRIP_ALLOWED_ORIGINS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "tripfinder-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
