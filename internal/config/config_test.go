package config_test

import (
	"testing"
	"time"

	"github.com/okian/tripfinder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.OpenWeatherAPIKey, convey.ShouldEqual, config.PlaceholderOpenWeatherKey)
			convey.So(cfg.FoursquareAPIKey, convey.ShouldEqual, config.PlaceholderFoursquareKey)
			convey.So(cfg.OpenWeatherBaseURL, convey.ShouldEqual, "https://api.openweathermap.org")
			convey.So(cfg.FoursquareBaseURL, convey.ShouldEqual, "https://api.foursquare.com")
			convey.So(cfg.MaxInFlight, convey.ShouldEqual, 0)
			convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then duration helpers convert milliseconds", func() {
			cfg.CatalogLatencyMinMS = 10
			cfg.CatalogLatencyMaxMS = 20
			lo, hi := cfg.CatalogLatency()
			convey.So(cfg.ProviderTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(lo, convey.ShouldEqual, 10*time.Millisecond)
			convey.So(hi, convey.ShouldEqual, 20*time.Millisecond)
		})
	})
}
