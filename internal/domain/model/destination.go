// Package model contains domain models passed between layers.
package model

// Placeholder values used when live enrichment data is not available.
const (
	UnavailableDescription = "Weather data unavailable"
	UnknownTemperature     = "N/A"
	DefaultIconCode        = "01d"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Destination is a candidate trip produced by the destination catalog.
// Values are treated as immutable once handed out.
type Destination struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Price       int         `json:"price"` // approximate flight price, whole currency units
	Coordinates Coordinates `json:"coordinates"`
	ImageRef    string      `json:"image_ref"`
}

// Title renders "City, Country" as used by cards and map popups.
func (d Destination) Title() string {
	return d.City + ", " + d.Country
}

// WeatherSummary is the current-conditions digest shown for a destination.
type WeatherSummary struct {
	Description string `json:"description"`
	Temperature string `json:"temperature"` // one decimal, Celsius, or "N/A"
	IconCode    string `json:"icon"`
}

// UnavailableWeather returns the sentinel summary used when weather data is missing.
func UnavailableWeather() WeatherSummary {
	return WeatherSummary{
		Description: UnavailableDescription,
		Temperature: UnknownTemperature,
		IconCode:    DefaultIconCode,
	}
}

// ActivityEntry is a nearby point of interest.
type ActivityEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}
