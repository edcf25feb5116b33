// Package places fetches nearby points of interest from a Foursquare-compatible API.
package places

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/tripfinder/internal/adapters/provider"
	"github.com/okian/tripfinder/internal/config"
	"github.com/okian/tripfinder/internal/domain/model"
	"github.com/okian/tripfinder/pkg/logger"
	"github.com/okian/tripfinder/pkg/metrics"
)

// Provider name used in logs and metric labels.
const Provider = "activities"

// Search parameters sent with every lookup.
const (
	searchPath      = "/v3/places/search"
	searchRadius    = "5000"
	searchCategory  = "16000" // landmarks and outdoors
	searchLimit     = "5"
	searchFields    = "fsq_id,name,categories,location"
	searchSort      = "DISTANCE"
	defaultName     = "Unknown place"
	defaultCategory = "Place"
)

// Client looks up activities near a coordinate. Every failure degrades
// to an empty list; Activities never returns an error.
type Client struct {
	api    *provider.Client
	apiKey string
	log    logger.Logger
}

// New creates an activities client. An empty or placeholder apiKey disables network calls.
func New(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		api:    provider.NewClient(baseURL, 0),
		apiKey: apiKey,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type reply struct {
	Results []venue `json:"results"`
}

type venue struct {
	Name       string `json:"name"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
}

// Activities returns up to five nearby places in provider order.
func (c *Client) Activities(ctx context.Context, coords model.Coordinates) model.ActivitiesOutcome {
	if !provider.HasCredential(c.apiKey, config.PlaceholderFoursquareKey) {
		c.log.Debug(ctx, "activities credential missing, returning empty list")
		return c.degrade(model.ReasonMissingCredential)
	}

	q := url.Values{}
	q.Set("ll", strconv.FormatFloat(coords.Latitude, 'f', -1, 64)+","+strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("radius", searchRadius)
	q.Set("categories", searchCategory)
	q.Set("limit", searchLimit)
	q.Set("fields", searchFields)
	q.Set("sort", searchSort)

	h := http.Header{}
	h.Set("Authorization", c.apiKey)
	h.Set("Accept", "application/json")

	start := time.Now()
	var r reply
	err := c.api.GetJSON(ctx, searchPath, q, h, &r)
	metrics.RecordEnrichmentLatency(Provider, float64(time.Since(start).Milliseconds()))
	if err != nil {
		reason := provider.Reason(err)
		c.log.Warn(ctx, "activities lookup failed",
			logger.Float64("lat", coords.Latitude),
			logger.Float64("lon", coords.Longitude),
			logger.String("reason", string(reason)),
			logger.Error(err),
		)
		return c.degrade(reason)
	}

	items := make([]model.ActivityEntry, 0, len(r.Results))
	for _, v := range r.Results {
		items = append(items, toEntry(v))
	}
	metrics.RecordEnrichmentCall(Provider, string(model.OutcomeLive), "")
	return model.LiveActivities(items)
}

func (c *Client) degrade(reason model.DegradeReason) model.ActivitiesOutcome {
	metrics.RecordEnrichmentCall(Provider, string(model.OutcomeDegraded), string(reason))
	return model.DegradedActivities(reason)
}

func toEntry(v venue) model.ActivityEntry {
	e := model.ActivityEntry{Name: defaultName, Category: defaultCategory}
	if v.Name != "" {
		e.Name = v.Name
	}
	if len(v.Categories) > 0 && v.Categories[0].Name != "" {
		e.Category = v.Categories[0].Name
	}
	return e
}
