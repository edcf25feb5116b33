package render

import (
	"context"
	"math"
	"sync"

	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// Viewport defaults.
const (
	DefaultPadding = 60
	DefaultMaxZoom = 10
	DefaultZoom    = 1.5
)

// DefaultCenter is the world view shown when there are no markers, as [lon, lat].
var DefaultCenter = [2]float64{0, 20} //nolint:gochecknoglobals // constant-like array

// Geometry is a GeoJSON point; Coordinates is [lon, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperties carries popup content.
type FeatureProperties struct {
	Title string `json:"title"`
	Price int    `json:"price"`
}

// Feature is a GeoJSON feature for one destination marker.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is the marker source data.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ViewportMode says how the client should move the camera.
type ViewportMode string

// Viewport modes.
const (
	ViewportFit ViewportMode = "fit" // fit Bounds with Padding and MaxZoom
	ViewportFly ViewportMode = "fly" // fly to Center at Zoom
)

// Viewport describes the camera after a render.
type Viewport struct {
	Mode ViewportMode `json:"mode"`
	// Bounds is [[west, south], [east, north]] when Mode is fit.
	Bounds  *[2][2]float64 `json:"bounds,omitempty"`
	Padding int            `json:"padding,omitempty"`
	MaxZoom float64        `json:"max_zoom,omitempty"`
	Center  *[2]float64    `json:"center,omitempty"`
	Zoom    float64        `json:"zoom,omitempty"`
}

// MapSnapshot is a point-in-time copy of the map view.
type MapSnapshot struct {
	Generation uint64            `json:"generation"`
	Data       FeatureCollection `json:"data"`
	Viewport   Viewport          `json:"viewport"`
}

// MapView renders batches as map markers. It is an explicit handle;
// create one with NewMapView and pass it to whoever renders.
type MapView struct {
	mu      sync.RWMutex
	snap    MapSnapshot
	padding int
	maxZoom float64
	log     logger.Logger
}

var _ Sink = (*MapView)(nil)

// MapOption configures a MapView.
type MapOption func(*MapView)

// WithPadding sets the fit padding in pixels.
func WithPadding(px int) MapOption {
	return func(m *MapView) {
		if px >= 0 {
			m.padding = px
		}
	}
}

// WithMaxZoom caps the zoom used when fitting bounds.
func WithMaxZoom(z float64) MapOption {
	return func(m *MapView) {
		if z > 0 {
			m.maxZoom = z
		}
	}
}

// WithMapLogger sets the logger.
func WithMapLogger(l logger.Logger) MapOption {
	return func(m *MapView) {
		if l != nil {
			m.log = l
		}
	}
}

// NewMapView creates a map showing the default world view and no markers.
func NewMapView(opts ...MapOption) *MapView {
	m := &MapView{
		padding: DefaultPadding,
		maxZoom: DefaultMaxZoom,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.snap = MapSnapshot{Data: emptyCollection(), Viewport: worldView()}
	return m
}

// Render replaces the markers with one per result and fits the camera to them.
func (m *MapView) Render(ctx context.Context, batch model.ResultBatch) error {
	snap := MapSnapshot{Generation: batch.Generation, Data: emptyCollection()}
	for _, r := range batch.Results {
		snap.Data.Features = append(snap.Data.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{r.Coordinates.Longitude, r.Coordinates.Latitude},
			},
			Properties: FeatureProperties{Title: r.Title(), Price: r.Price},
		})
	}
	if len(snap.Data.Features) == 0 {
		snap.Viewport = worldView()
	} else {
		b := bounds(snap.Data.Features)
		snap.Viewport = Viewport{Mode: ViewportFit, Bounds: &b, Padding: m.padding, MaxZoom: m.maxZoom}
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()

	metrics.RecordRenderedBatch("map")
	m.log.Debug(ctx, "map rendered",
		logger.Uint64("generation", batch.Generation),
		logger.Int("markers", len(snap.Data.Features)),
	)
	return nil
}

// Clear removes every marker and resets the camera.
func (m *MapView) Clear(generation uint64) {
	m.mu.Lock()
	m.snap = MapSnapshot{Generation: generation, Data: emptyCollection(), Viewport: worldView()}
	m.mu.Unlock()
}

// Snapshot returns a copy of the current map state.
func (m *MapView) Snapshot() MapSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.snap
	out.Data.Features = append([]Feature{}, m.snap.Data.Features...)
	return out
}

func emptyCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

func worldView() Viewport {
	c := DefaultCenter
	return Viewport{Mode: ViewportFly, Center: &c, Zoom: DefaultZoom}
}

func bounds(fs []Feature) [2][2]float64 {
	west, south := math.Inf(1), math.Inf(1)
	east, north := math.Inf(-1), math.Inf(-1)
	for _, f := range fs {
		lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		west = math.Min(west, lon)
		east = math.Max(east, lon)
		south = math.Min(south, lat)
		north = math.Max(north, lat)
	}
	return [2][2]float64{{west, south}, {east, north}}
}
