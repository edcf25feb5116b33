package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/tripfinder/internal/adapters/http/api"
	"github.com/okian/tripfinder/internal/adapters/render"
	service "github.com/okian/tripfinder/internal/app"
	"github.com/okian/tripfinder/internal/domain/catalog"
	"github.com/okian/tripfinder/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	list    *render.ListView
	mapView *render.MapView
	err     error
	budgets []int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		list:    render.NewListView(nil),
		mapView: render.NewMapView(),
	}
}

func (m *mockDependencies) Search(ctx context.Context, budget int) (service.SearchResult, error) {
	m.budgets = append(m.budgets, budget)
	if m.err != nil {
		return service.SearchResult{Budget: budget}, m.err
	}
	if budget < 0 {
		return service.SearchResult{}, fmt.Errorf("%w: %d", service.ErrInvalidBudget, budget)
	}
	var results []model.EnrichedResult
	for _, d := range catalog.All() {
		if d.Price > budget {
			continue
		}
		r := model.EnrichedResult{
			Destination:       d,
			Weather:           model.UnavailableWeather(),
			Activities:        []model.ActivityEntry{},
			WeatherOutcome:    model.OutcomeDegraded,
			ActivitiesOutcome: model.OutcomeLive,
		}
		results = append(results, r)
	}
	batch := model.ResultBatch{Generation: 1, Results: results}
	outcome := service.OutcomeResults
	if batch.Empty() {
		outcome = service.OutcomeEmpty
	} else {
		_ = render.Multi{m.list, m.mapView}.Render(ctx, batch)
	}
	return service.SearchResult{SearchID: "s-1", Generation: 1, Budget: budget, Outcome: outcome, Batch: batch}, nil
}

func (m *mockDependencies) ListView() *render.ListView { return m.list }
func (m *mockDependencies) MapView() *render.MapView   { return m.mapView }
func (m *mockDependencies) PublicConfig() service.PublicConfig {
	return service.PublicConfig{MapboxToken: "pk.test", MapConfigured: true, DefaultCenter: render.DefaultCenter}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps api.Dependencies, opts ...api.ServerOption) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"searches": 3}}, opts...)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("Then health endpoint serves metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And stats endpoint returns service stats", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["searches"], ShouldEqual, float64(3))
		})

		Convey("And config endpoint returns the public config", func() {
			w := get(mux, "/config")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"mapbox_token":"pk.test"`)
		})

		Convey("And non-GET methods are not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/search?budget=10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSearchHandler(t *testing.T) {
	Convey("Given the search endpoint", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When searching with a budget of 400", func() {
			w := get(mux, "/search?budget=400")

			Convey("Then results are returned in order with stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
				var body struct {
					Search  string `json:"search"`
					Outcome string `json:"outcome"`
					Stats   struct {
						Count    int `json:"count"`
						Degraded int `json:"degraded"`
					} `json:"stats"`
					Results []model.EnrichedResult `json:"results"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Search, ShouldEqual, "s-1")
				So(body.Outcome, ShouldEqual, service.OutcomeResults)
				So(body.Stats.Count, ShouldEqual, 5)
				So(body.Stats.Degraded, ShouldEqual, 5)
				So(body.Results[0].City, ShouldEqual, "Lisbon")
				So(body.Results[0].Weather.Description, ShouldEqual, model.UnavailableDescription)
			})

			Convey("And the views reflect the batch", func() {
				it := get(mux, "/itinerary")
				So(it.Code, ShouldEqual, http.StatusOK)
				var snap render.ListSnapshot
				So(json.Unmarshal(it.Body.Bytes(), &snap), ShouldBeNil)
				So(snap.State, ShouldEqual, render.StateResults)
				So(snap.Cards, ShouldHaveLength, 5)

				mp := get(mux, "/map")
				So(mp.Code, ShouldEqual, http.StatusOK)
				var ms render.MapSnapshot
				So(json.Unmarshal(mp.Body.Bytes(), &ms), ShouldBeNil)
				So(ms.Data.Features, ShouldHaveLength, 5)
				So(ms.Viewport.Mode, ShouldEqual, render.ViewportFit)
			})
		})

		Convey("When no destination fits", func() {
			w := get(mux, "/search?budget=100")

			Convey("Then an empty list and message are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"results":[]`)
				So(w.Body.String(), ShouldContainSubstring, render.NoMatchesText)
			})
		})

		Convey("When the request id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/search?budget=300", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When the budget is missing or malformed", func() {
			for _, target := range []string{"/search", "/search?budget=", "/search?budget=abc", "/search?budget=1.5"} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
			So(deps.budgets, ShouldBeEmpty)
		})

		Convey("When the budget is negative", func() {
			w := get(mux, "/search?budget=-1")

			Convey("Then the service rejection becomes 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "invalid_budget")
			})
		})

		Convey("When a newer search superseded this one", func() {
			deps.err = fmt.Errorf("%w: generation 1", service.ErrSuperseded)
			w := get(mux, "/search?budget=500")

			Convey("Then 409 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(w.Body.String(), ShouldContainSubstring, "superseded")
			})
		})

		Convey("When the search fails", func() {
			deps.err = fmt.Errorf("%w: %w", service.ErrSearchFailed, errors.New("db gone"))
			w := get(mux, "/search?budget=500")

			Convey("Then the generic message is returned without internals", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, render.GenericErrorText)
				So(w.Body.String(), ShouldContainSubstring, api.ErrInternal.Error())
				So(w.Body.String(), ShouldNotContainSubstring, "db gone")
			})
		})

		Convey("When the caller went away before the search finished", func() {
			deps.err = fmt.Errorf("%w: generation 1: %w", service.ErrCanceled, context.Canceled)
			w := get(mux, "/search?budget=500")

			Convey("Then the search is reported as canceled", func() {
				So(w.Code, ShouldEqual, http.StatusRequestTimeout)
				So(w.Body.String(), ShouldContainSubstring, `"canceled"`)
			})
		})
	})
}

func TestRateLimiter(t *testing.T) {
	Convey("Given a limiter allowing a burst of two", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps, api.WithRateLimiter(api.NewRateLimiter(1, 2)))

		Convey("When one client sends three searches at once", func() {
			codes := []int{}
			for range 3 {
				codes = append(codes, get(mux, "/search?budget=300").Code)
			}

			Convey("Then the third is rejected", func() {
				So(codes, ShouldResemble, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
				So(deps.budgets, ShouldHaveLength, 2)
			})
		})

		Convey("When different clients search", func() {
			l := api.NewRateLimiter(1, 1)

			Convey("Then each has its own bucket", func() {
				So(l.Allow("10.0.0.1"), ShouldBeTrue)
				So(l.Allow("10.0.0.1"), ShouldBeFalse)
				So(l.Allow("10.0.0.2"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a limiter with a one-minute idle TTL", t, func() {
		now := time.Unix(1_700_000_000, 0)
		l := api.NewRateLimiter(60, 1,
			api.WithIdleTTL(time.Minute),
			api.WithClock(func() time.Time { return now }),
		)

		Convey("When many clients come and go", func() {
			for i := range 50 {
				So(l.Allow(fmt.Sprintf("10.0.1.%d", i)), ShouldBeTrue)
			}
			So(l.Clients(), ShouldEqual, 50)

			now = now.Add(30 * time.Second)
			So(l.Allow("10.0.2.1"), ShouldBeTrue)

			now = now.Add(45 * time.Second)
			So(l.Allow("10.0.2.2"), ShouldBeTrue)

			Convey("Then only buckets seen within the TTL are kept", func() {
				So(l.Clients(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a disabled limiter", t, func() {
		l := api.NewRateLimiter(0, 0)

		Convey("Then every request passes", func() {
			for range 10 {
				So(l.Allow("10.0.0.1"), ShouldBeTrue)
			}
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given the CORS wrapper", t, func() {
		h := api.CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}), []string{"http://localhost:3000"})

		Convey("When an allowed origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/config", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the origin is allowed", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			})
		})

		Convey("When another origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/config", nil)
			req.Header.Set("Origin", "http://evil.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then no allow header is sent", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})
	})
}

func TestViewsBeforeStart(t *testing.T) {
	Convey("Given dependencies without views", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		Convey("Then view endpoints report not ready", func() {
			So(get(mux, "/itinerary").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(get(mux, "/map").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestNewKind(t *testing.T) {
	Convey("Given an api error kind", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.search", api.ErrBadRequest, cause)

		Convey("Then both kind and cause are in the chain", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.search: bad request: boom")
			So(api.WrapKind("op", api.ErrRateLimited, nil).Error(), ShouldEqual, "op: rate limited")
		})
	})
}
