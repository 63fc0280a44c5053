package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func NewOverpassClient(h *http.Client, baseURL string) *ovp {
	return &ovp{h: h, baseURL: baseURL}
}

type ovp struct {
	h       *http.Client
	baseURL string
}

var _ Client = (*ovp)(nil)

func (c *ovp) FindPizzaPlaces(ctx context.Context, lat, lng, radius float64) ([]Place, error) {
	query := buildQuery(lat, lng, radius)
	endpoint := fmt.Sprintf("%s?data=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build overpass request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to query overpass: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("unexpected overpass response: (%d) %s", res.StatusCode, string(body))
	}

	var d overpassResponse
	if err := json.NewDecoder(res.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("unable to decode overpass response: %w", err)
	}

	pizzaPlaces := make([]Place, 0, len(d.Elements))
	for _, element := range d.Elements {
		place, ok := newPlace(element)
		if !ok {
			continue
		}

		pizzaPlaces = append(pizzaPlaces, place)
	}

	return pizzaPlaces, nil
}

// buildQuery renders an Overpass QL query for pizza places within the
// bounding box centered on (lat, lng). The cuisine match is a substring
// regex, so "pizza;kebab" matches too. There's no wraparound handling at the
// antimeridian or the poles.
func buildQuery(lat, lng, radius float64) string {
	south := lat - radius
	north := lat + radius
	west := lng - radius
	east := lng + radius

	// Shortest lossless rendering, so the box sent upstream is exactly the
	// one computed.
	bbox := strings.Join([]string{
		strconv.FormatFloat(south, 'f', -1, 64),
		strconv.FormatFloat(west, 'f', -1, 64),
		strconv.FormatFloat(north, 'f', -1, 64),
		strconv.FormatFloat(east, 'f', -1, 64),
	}, ",")

	return fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="restaurant"]["cuisine"~"pizza"](%[1]s);
  way["amenity"="restaurant"]["cuisine"~"pizza"](%[1]s);
  node["amenity"="fast_food"]["cuisine"~"pizza"](%[1]s);
  node["shop"="food"]["cuisine"~"pizza"](%[1]s);
);
out center;`, bbox)
}

// newPlace flattens an upstream element into a Place. Ways only carry a
// "center" coordinate; elements with neither that nor lat/lon are unusable
// and reported as such.
func newPlace(element overpassElement) (Place, bool) {
	var lat, lng float64
	switch {
	case element.Lat != nil && element.Lon != nil:
		lat, lng = *element.Lat, *element.Lon
	case element.Center != nil:
		lat, lng = element.Center.Lat, element.Center.Lon
	default:
		return Place{}, false
	}

	tags := element.Tags

	return Place{
		ID:           strconv.FormatInt(element.ID, 10),
		Latitude:     lat,
		Longitude:    lng,
		Name:         tagOr(tags, "name", "Pizza Place"),
		Cuisine:      tagOr(tags, "cuisine", "pizza"),
		Amenity:      tagOr(tags, "amenity", tagOr(tags, "shop", "restaurant")),
		Phone:        tags["phone"],
		Website:      tags["website"],
		Address:      buildAddress(tags),
		OpeningHours: tags["opening_hours"],
		Takeaway:     tags["takeaway"],
		Delivery:     tags["delivery"],
		Rating:       extractRating(tags),
	}, true
}

func tagOr(tags map[string]string, key, fallback string) string {
	if v := tags[key]; v != "" {
		return v
	}

	return fallback
}

func buildAddress(tags map[string]string) string {
	var parts []string
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:city"} {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, ", ")
}

// extractRating parses the free-text rating tag. It's not a curated field,
// so anything non-numeric simply means "no rating".
func extractRating(tags map[string]string) *float64 {
	v := tags["rating"]
	if v == "" {
		return nil
	}

	rating, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}

	return &rating
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
