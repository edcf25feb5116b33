// Package mockprovider serves fake weather and places endpoints that speak
// the same wire format as the real providers.
package mockprovider

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/tripfinder/pkg/logger"
)

// Routes served by the mock.
const (
	WeatherPath = "/data/2.5/weather"
	PlacesPath  = "/v3/places/search"
)

var conditions = []struct{ description, icon string }{ //nolint:gochecknoglobals // fixture table
	{"clear sky", "01d"},
	{"few clouds", "02d"},
	{"scattered clouds", "03d"},
	{"broken clouds", "04d"},
	{"light rain", "10d"},
	{"thunderstorm", "11d"},
	{"mist", "50d"},
}

var places = []struct{ name, category string }{ //nolint:gochecknoglobals // fixture table
	{"Old Town Square", "Plaza"},
	{"City Museum", "History Museum"},
	{"Riverside Park", "Park"},
	{"Cathedral", "Church"},
	{"Central Market", "Market"},
	{"Viewpoint", "Scenic Lookout"},
	{"Botanical Garden", "Garden"},
}

// Server is a fake provider backend.
type Server struct {
	mu          sync.Mutex
	rng         *rand.Rand
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
	logger      logger.Logger
}

// New creates a mock with no latency and no failures.
func New(opts ...Option) *Server {
	s := &Server{
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // not crypto
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes of both fake providers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WeatherPath, s.handleWeather)
	mux.HandleFunc(PlacesPath, s.handlePlaces)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("appid") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"cod": 401, "message": "Invalid API key"})
		return
	}
	lat, lon, ok := parseCoords(q.Get("lat"), q.Get("lon"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"cod": "400", "message": "wrong latitude"})
		return
	}
	if !s.simulate(r.Context(), w, "weather") {
		return
	}

	h := seed(lat, lon)
	c := conditions[h%uint64(len(conditions))]
	// roughly warmer toward the equator
	temp := math.Round((30-math.Abs(lat)/3+float64(h%7))*100) / 100
	writeJSON(w, http.StatusOK, map[string]any{
		"weather": []map[string]string{{"description": c.description, "icon": c.icon}},
		"main":    map[string]float64{"temp": temp},
	})
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Missing credentials"})
		return
	}
	parts := strings.Split(r.URL.Query().Get("ll"), ",")
	if len(parts) != 2 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid ll"})
		return
	}
	lat, lon, ok := parseCoords(parts[0], parts[1])
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid ll"})
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > len(places) {
		limit = len(places)
	}
	if !s.simulate(r.Context(), w, "places") {
		return
	}

	h := seed(lat, lon)
	results := make([]map[string]any, 0, limit)
	for i := range limit {
		p := places[(h+uint64(i))%uint64(len(places))]
		results = append(results, map[string]any{
			"fsq_id":     strconv.FormatUint(h, 16) + "-" + strconv.Itoa(i),
			"name":       p.name,
			"categories": []map[string]string{{"name": p.category}},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// simulate sleeps for the configured latency and may inject a failure.
// It reports whether the handler should continue.
func (s *Server) simulate(ctx context.Context, w http.ResponseWriter, route string) bool {
	s.mu.Lock()
	latency := s.minLatency
	if span := s.maxLatency - s.minLatency; span > 0 {
		latency += time.Duration(s.rng.Int64N(int64(span)))
	}
	fail := s.failureRate > 0 && s.rng.Float64() < s.failureRate
	s.mu.Unlock()

	if latency > 0 {
		t := time.NewTimer(latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return false
		}
	}
	if fail {
		s.logger.Debug(ctx, "injecting failure", logger.String("route", route))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "provider unavailable"})
		return false
	}
	return true
}

func parseCoords(rawLat, rawLon string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// seed derives a stable value from a coordinate pair.
func seed(lat, lon float64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)))
	return h.Sum64()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
