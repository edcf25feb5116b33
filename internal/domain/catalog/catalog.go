// Package catalog provides the fixed destination catalog and its budget filter.
package catalog

import (
	"github.com/okian/tripfinder/internal/domain/model"
)

// imagePrefix is the directory holding catalog images under the site root.
const imagePrefix = "moch-Data-Images/"

// destinations is the reference catalog in display order. Never mutated.
var destinations = []model.Destination{ //nolint:gochecknoglobals // read-only reference data
	{City: "Bangkok", Country: "Thailand", Price: 450, Coordinates: model.Coordinates{Latitude: 13.7563, Longitude: 100.5018}, ImageRef: imagePrefix + "Grand-Palace-Thailand.jpg"},
	{City: "Lisbon", Country: "Portugal", Price: 380, Coordinates: model.Coordinates{Latitude: 38.7223, Longitude: -9.1393}, ImageRef: imagePrefix + "Historic-Castle-Potugal.jpg"},
	{City: "Medellín", Country: "Colombia", Price: 320, Coordinates: model.Coordinates{Latitude: 6.2476, Longitude: -75.5658}, ImageRef: imagePrefix + "Pablo-Escobar-Museum-Columbia.jpg"},
	{City: "Ho Chi Minh City", Country: "Vietnam", Price: 510, Coordinates: model.Coordinates{Latitude: 10.8231, Longitude: 106.6297}, ImageRef: imagePrefix + "VietNam-City.jpg"},
	{City: "Mexico City", Country: "Mexico", Price: 250, Coordinates: model.Coordinates{Latitude: 19.4326, Longitude: -99.1332}, ImageRef: imagePrefix + "Mexico-city.jpg"},
	{City: "Prague", Country: "Czech Republic", Price: 420, Coordinates: model.Coordinates{Latitude: 50.0755, Longitude: 14.4378}, ImageRef: imagePrefix + "Prague-Czech-Republic.jpg"},
	{City: "Buenos Aires", Country: "Argentina", Price: 600, Coordinates: model.Coordinates{Latitude: -34.6037, Longitude: -58.3816}, ImageRef: imagePrefix + "Argentina-Skyline.jpg"},
	{City: "Krakow", Country: "Poland", Price: 390, Coordinates: model.Coordinates{Latitude: 50.0647, Longitude: 19.9450}, ImageRef: imagePrefix + "Poland.jpg"},
	{City: "Budapest", Country: "Hungary", Price: 410, Coordinates: model.Coordinates{Latitude: 47.4979, Longitude: 19.0402}, ImageRef: imagePrefix + "Hungary.jpg"},
	{City: "Canggu, Bali", Country: "Indonesia", Price: 550, Coordinates: model.Coordinates{Latitude: -8.6478, Longitude: 115.1385}, ImageRef: imagePrefix + "Bali.jpg"},
	{City: "Marrakech", Country: "Morocco", Price: 350, Coordinates: model.Coordinates{Latitude: 31.6295, Longitude: -7.9811}, ImageRef: imagePrefix + "morocco.jpg"},
	{City: "Cairo", Country: "Egypt", Price: 480, Coordinates: model.Coordinates{Latitude: 30.0444, Longitude: 31.2357}, ImageRef: imagePrefix + "Egypt.jpg"},
	{City: "Castries", Country: "Saint Lucia", Price: 700, Coordinates: model.Coordinates{Latitude: 14.0101, Longitude: -60.9861}, ImageRef: imagePrefix + "Castries-SaintLucia.jpg"},
}

// All returns a copy of the full reference catalog.
func All() []model.Destination {
	out := make([]model.Destination, len(destinations))
	copy(out, destinations)
	return out
}
