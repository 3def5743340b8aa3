package geo

import (
	"fmt"
	"log/slog"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves a region name to coordinates.
type Geocoder interface {
	Locate(region string) (lon, lat float64, err error)
}

// GoogleGeocoder uses the Google Maps geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder sets the API key used by all geocoding calls.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Locate(region string) (float64, float64, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{Country: region})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", region, err)
	}
	return loc.Longitude, loc.Latitude, nil
}

// Complete returns catalog extended with a marker for every region in present
// that the catalog lacks. New markers are geocoded and placed on the dot map
// with the given projection. Regions that fail to resolve are logged and skipped.
func Complete(catalog Catalog, present []string, g Geocoder, proj Equirectangular, logger *slog.Logger) Catalog {
	out := append(Catalog(nil), catalog...)
	if g == nil {
		return out
	}

	for _, region := range present {
		if _, ok := catalog.Lookup(region); ok {
			continue
		}
		lon, lat, err := g.Locate(region)
		if err != nil {
			logger.Warn("region not geocoded", "region", region, "error", err)
			continue
		}
		x, y := proj.Project(lon, lat)
		out = append(out, Marker{Name: region, X: x, Y: y, Lon: f(lon), Lat: f(lat)})
		logger.Info("region geocoded", "region", region, "lon", lon, "lat", lat)
	}
	return out
}
