package geocode

import (
	"context"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// NewOpenstreetmapClient resolves cities through the geo-golang
// openstreetmap geocoder instead of calling Nominatim by hand. The library
// doesn't expose the raw display name, so it takes a second, reverse lookup
// to recover one.
func NewOpenstreetmapClient() *oc {
	geocoder := openstreetmap.Geocoder()
	return &oc{geocoder: geocoder}
}

type oc struct {
	geocoder geo.Geocoder
}

var _ Client = (*oc)(nil)

func (c *oc) FindCity(_ context.Context, name string) (*City, error) {
	location, err := c.geocoder.Geocode(name)
	if err != nil {
		return nil, err
	}

	if location == nil {
		return nil, ErrNotFound
	}

	displayName := name
	if address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng); err == nil && address != nil && address.FormattedAddress != "" {
		displayName = address.FormattedAddress
	}

	return &City{
		DisplayName: displayName,
		Latitude:    location.Lat,
		Longitude:   location.Lng,
	}, nil
}
