package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// ListState describes what the itinerary view currently shows.
type ListState string

// Itinerary view states.
const (
	StateIdle    ListState = "idle"
	StateResults ListState = "results"
	StateEmpty   ListState = "empty"
	StateError   ListState = "error"
)

// Display texts.
const (
	ResultsHeading   = "✈️ Your Budget-Friendly Trip Options:"
	NoMatchesText    = "No destinations found matching your criteria."
	NoActivitiesText = "No specific attractions found via Foursquare."
	ActivitiesLabel  = "Things to Do Nearby:"
	GenericErrorText = "An error occurred during the search. Please try again later."
	TryAgainHint     = "Try increasing your budget or check back later."
)

// Card is one itinerary entry.
type Card struct {
	Title       string   `json:"title"`
	ImageRef    string   `json:"image"`
	Price       int      `json:"price"`
	PriceLabel  string   `json:"price_label"`
	WeatherLine string   `json:"weather"`
	IconCode    string   `json:"icon"`
	Activities  []string `json:"activities"`
	// NoActivities is set when Activities is empty.
	NoActivities string `json:"no_activities,omitempty"`
	Degraded     bool   `json:"degraded"`
}

// ListSnapshot is a point-in-time copy of the itinerary view.
type ListSnapshot struct {
	Generation uint64    `json:"generation"`
	State      ListState `json:"state"`
	Heading    string    `json:"heading,omitempty"`
	Messages   []string  `json:"messages,omitempty"`
	Cards      []Card    `json:"cards"`
}

// ListView renders batches as itinerary cards. Last writer wins.
type ListView struct {
	mu   sync.RWMutex
	snap ListSnapshot
	log  logger.Logger
}

var _ Sink = (*ListView)(nil)

// NewListView creates an idle ListView.
func NewListView(l logger.Logger) *ListView {
	if l == nil {
		l = logger.Nop()
	}
	return &ListView{
		snap: ListSnapshot{State: StateIdle, Cards: []Card{}},
		log:  l,
	}
}

// Render replaces the view with cards for batch, or the no-match state when empty.
func (v *ListView) Render(ctx context.Context, batch model.ResultBatch) error {
	snap := ListSnapshot{Generation: batch.Generation, Cards: make([]Card, 0, batch.Len())}
	if batch.Empty() {
		snap.State = StateEmpty
		snap.Messages = []string{NoMatchesText}
	} else {
		snap.State = StateResults
		snap.Heading = ResultsHeading
		for _, r := range batch.Results {
			snap.Cards = append(snap.Cards, cardFor(r))
		}
	}

	v.set(snap)
	metrics.RecordRenderedBatch("list")
	v.log.Debug(ctx, "itinerary rendered",
		logger.Uint64("generation", batch.Generation),
		logger.Int("cards", len(snap.Cards)),
	)
	return nil
}

// ShowEmpty renders the informational state for a budget with no affordable destinations.
func (v *ListView) ShowEmpty(generation uint64, budget int) {
	v.set(ListSnapshot{
		Generation: generation,
		State:      StateEmpty,
		Messages: []string{
			fmt.Sprintf("No destinations found within your budget of $%d. 💸", budget),
			TryAgainHint,
		},
		Cards: []Card{},
	})
}

// ShowError renders the generic failure state.
func (v *ListView) ShowError(generation uint64) {
	v.set(ListSnapshot{
		Generation: generation,
		State:      StateError,
		Messages:   []string{"⚠️ " + GenericErrorText},
		Cards:      []Card{},
	})
}

// Snapshot returns a copy of the current view.
func (v *ListView) Snapshot() ListSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.snap
	out.Messages = append([]string(nil), v.snap.Messages...)
	out.Cards = append([]Card{}, v.snap.Cards...)
	return out
}

func (v *ListView) set(s ListSnapshot) {
	v.mu.Lock()
	v.snap = s
	v.mu.Unlock()
}

func cardFor(r model.EnrichedResult) Card {
	c := Card{
		Title:       r.Title(),
		ImageRef:    r.ImageRef,
		Price:       r.Price,
		PriceLabel:  fmt.Sprintf("$%d", r.Price),
		WeatherLine: fmt.Sprintf("%s, %s°C", r.Weather.Description, r.Weather.Temperature),
		IconCode:    r.Weather.IconCode,
		Activities:  make([]string, 0, len(r.Activities)),
		Degraded:    r.Degraded(),
	}
	for _, a := range r.Activities {
		c.Activities = append(c.Activities, fmt.Sprintf("%s (%s)", a.Name, a.Category))
	}
	if len(c.Activities) == 0 {
		c.NoActivities = NoActivitiesText
	}
	return c
}
