package geocode

import (
	"context"
	"errors"
)

type Client interface {
	FindCity(ctx context.Context, name string) (*City, error)
}

// ErrNotFound means the geocoder answered fine but knows no place by that
// name.
var ErrNotFound = errors.New("no matching place found")

type City struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
}
