package places

import "context"

type Client interface {
	FindPizzaPlaces(ctx context.Context, lat, lng, radius float64) ([]Place, error)
}

// Place is a pizza-serving establishment as the API exposes it. It's a
// flattened view over the upstream's free-form tags; most fields default to
// the empty string when the tag is missing.
type Place struct {
	ID           string   `json:"id"`
	Latitude     float64  `json:"lat"`
	Longitude    float64  `json:"lng"`
	Name         string   `json:"name"`
	Cuisine      string   `json:"cuisine"`
	Amenity      string   `json:"amenity"`
	Phone        string   `json:"phone"`
	Website      string   `json:"website"`
	Address      string   `json:"address"`
	OpeningHours string   `json:"opening_hours"`
	Takeaway     string   `json:"takeaway"`
	Delivery     string   `json:"delivery"`
	Rating       *float64 `json:"rating"`
}
