package model

// Outcome tells whether an enrichment value came from the provider or is a placeholder.
type Outcome string

// Enrichment outcomes.
const (
	OutcomeLive     Outcome = "live"
	OutcomeDegraded Outcome = "degraded"
)

// DegradeReason classifies why an enrichment value was replaced by its placeholder.
type DegradeReason string

// Degrade reasons, also used as metric labels.
const (
	ReasonNone              DegradeReason = ""
	ReasonMissingCredential DegradeReason = "missing_credential"
	ReasonTransport         DegradeReason = "transport"
	ReasonHTTPStatus        DegradeReason = "http_status"
	ReasonDecode            DegradeReason = "decode"
	ReasonCanceled          DegradeReason = "canceled"
	ReasonPanic             DegradeReason = "panic"
	ReasonEmpty             DegradeReason = "empty"
)

// WeatherOutcome is the result type returned by weather clients.
type WeatherOutcome struct {
	Summary WeatherSummary
	Outcome Outcome
	Reason  DegradeReason
}

// LiveWeather wraps a provider summary.
func LiveWeather(s WeatherSummary) WeatherOutcome {
	return WeatherOutcome{Summary: s, Outcome: OutcomeLive}
}

// DegradedWeather returns the sentinel summary tagged with reason.
func DegradedWeather(reason DegradeReason) WeatherOutcome {
	return WeatherOutcome{Summary: UnavailableWeather(), Outcome: OutcomeDegraded, Reason: reason}
}

// ActivitiesOutcome is the result type returned by activity clients.
type ActivitiesOutcome struct {
	Items   []ActivityEntry
	Outcome Outcome
	Reason  DegradeReason
}

// LiveActivities wraps provider entries. A nil slice is normalized to empty.
func LiveActivities(items []ActivityEntry) ActivitiesOutcome {
	if items == nil {
		items = []ActivityEntry{}
	}
	return ActivitiesOutcome{Items: items, Outcome: OutcomeLive}
}

// DegradedActivities returns an empty list tagged with reason.
func DegradedActivities(reason DegradeReason) ActivitiesOutcome {
	return ActivitiesOutcome{Items: []ActivityEntry{}, Outcome: OutcomeDegraded, Reason: reason}
}

// EnrichedResult is a destination with its weather and activities attached.
type EnrichedResult struct {
	Destination
	Weather           WeatherSummary  `json:"weather"`
	Activities        []ActivityEntry `json:"activities"`
	WeatherOutcome    Outcome         `json:"weather_outcome"`
	ActivitiesOutcome Outcome         `json:"activities_outcome"`
}

// Degraded reports whether any field of the result is a placeholder.
func (r EnrichedResult) Degraded() bool {
	return r.WeatherOutcome == OutcomeDegraded || r.ActivitiesOutcome == OutcomeDegraded
}

// ResultBatch is the complete, order-preserving output of one aggregation.
type ResultBatch struct {
	Generation uint64           `json:"generation"`
	Results    []EnrichedResult `json:"results"`
}

// Len returns the number of results in the batch.
func (b ResultBatch) Len() int { return len(b.Results) }

// Empty reports whether the batch holds no results.
func (b ResultBatch) Empty() bool { return len(b.Results) == 0 }
