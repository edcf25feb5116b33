// Package weather fetches current conditions from an OpenWeatherMap-compatible API.
package weather

import (
	"context"
	"math"
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
const Provider = "weather"

const (
	currentPath        = "/data/2.5/weather"
	defaultDescription = "Not available"
)

// Client looks up current weather for a coordinate. Every failure degrades
// to the sentinel summary; Weather never returns an error.
type Client struct {
	api    *provider.Client
	apiKey string
	log    logger.Logger
}

// New creates a weather client. An empty or placeholder apiKey disables network calls.
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

// reply mirrors the subset of the current-weather payload we read.
type reply struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

// Weather returns the current conditions at coords.
func (c *Client) Weather(ctx context.Context, coords model.Coordinates) model.WeatherOutcome {
	if !provider.HasCredential(c.apiKey, config.PlaceholderOpenWeatherKey) {
		c.log.Debug(ctx, "weather credential missing, using placeholder")
		return c.degrade(model.ReasonMissingCredential)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	start := time.Now()
	var r reply
	err := c.api.GetJSON(ctx, currentPath, q, http.Header{"Accept": {"application/json"}}, &r)
	metrics.RecordEnrichmentLatency(Provider, float64(time.Since(start).Milliseconds()))
	if err != nil {
		reason := provider.Reason(err)
		c.log.Warn(ctx, "weather lookup failed",
			logger.Float64("lat", coords.Latitude),
			logger.Float64("lon", coords.Longitude),
			logger.String("reason", string(reason)),
			logger.Error(err),
		)
		return c.degrade(reason)
	}

	metrics.RecordEnrichmentCall(Provider, string(model.OutcomeLive), "")
	return model.LiveWeather(summarize(r))
}

func (c *Client) degrade(reason model.DegradeReason) model.WeatherOutcome {
	metrics.RecordEnrichmentCall(Provider, string(model.OutcomeDegraded), string(reason))
	return model.DegradedWeather(reason)
}

// summarize applies per-field defaults to a well-formed reply.
func summarize(r reply) model.WeatherSummary {
	s := model.WeatherSummary{
		Description: defaultDescription,
		Temperature: model.UnknownTemperature,
		IconCode:    model.DefaultIconCode,
	}
	if len(r.Weather) > 0 {
		if r.Weather[0].Description != "" {
			s.Description = r.Weather[0].Description
		}
		if r.Weather[0].Icon != "" {
			s.IconCode = r.Weather[0].Icon
		}
	}
	if r.Main.Temp != nil {
		s.Temperature = oneDecimal(*r.Main.Temp)
	}
	return s
}

// oneDecimal formats t with one fractional digit, rounding exact ties away
// from zero. Inexact values round on their exact binary value.
func oneDecimal(t float64) string {
	scaled := t * 10
	if math.Abs(scaled-math.Trunc(scaled)) == 0.5 && math.FMA(t, 10, -scaled) == 0 {
		return strconv.FormatFloat(math.Round(scaled)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(t, 'f', 1, 64)
}
