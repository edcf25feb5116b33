package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	app "github.com/okian/tripfinder/internal/app"
	"github.com/okian/tripfinder/internal/config"
	"github.com/okian/tripfinder/internal/mockprovider"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("TRIP_ADDR", ":8080")
			_ = os.Setenv("TRIP_MAX_IN_FLIGHT", "4")
			defer func() {
				_ = os.Unsetenv("TRIP_ADDR")
				_ = os.Unsetenv("TRIP_MAX_IN_FLIGHT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxInFlight, convey.ShouldEqual, 4)

				svc := newService(cfg, logger.Nop())
				convey.So(svc.GetStats()["maxInFlight"], convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return when the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the full handler wired to mock providers", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		providers := httptest.NewServer(mockprovider.New().Handler())
		defer providers.Close()

		cfg := config.New()
		cfg.OpenWeatherAPIKey = "test-key"
		cfg.OpenWeatherBaseURL = providers.URL
		cfg.FoursquareAPIKey = "test-key"
		cfg.FoursquareBaseURL = providers.URL
		cfg.AllowedOrigins = []string{"http://localhost:3000"}

		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, cfg, svc, logger.Nop())

		convey.Convey("When a search is made from the browser origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/search?budget=400", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then results come back live with CORS headers", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "http://localhost:3000")
				var body struct {
					Outcome string `json:"outcome"`
					Stats   struct {
						Count    int `json:"count"`
						Degraded int `json:"degraded"`
					} `json:"stats"`
				}
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body.Outcome, convey.ShouldEqual, app.OutcomeResults)
				convey.So(body.Stats.Count, convey.ShouldEqual, 5)
				convey.So(body.Stats.Degraded, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the docs, front-end and metrics are requested", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/config", "/itinerary", "/map", "/stats"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("TRIP_ADDR", "")
			defer func() { _ = os.Unsetenv("TRIP_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
