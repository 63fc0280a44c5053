package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// NewNominatimClient talks to a Nominatim instance directly. Nominatim's
// usage policy requires identifying the application, hence the mandatory
// user agent.
func NewNominatimClient(h *http.Client, baseURL, userAgent string) *nmt {
	return &nmt{h: h, baseURL: baseURL, userAgent: userAgent}
}

type nmt struct {
	h         *http.Client
	baseURL   string
	userAgent string
}

var _ Client = (*nmt)(nil)

func (c *nmt) FindCity(ctx context.Context, name string) (*City, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build nominatim request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to query nominatim: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("unexpected nominatim response: (%d) %s", res.StatusCode, string(body))
	}

	var d []searchResult
	if err := json.NewDecoder(res.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("unable to decode nominatim response: %w", err)
	}

	if len(d) == 0 {
		return nil, ErrNotFound
	}

	// Nominatim serialises coordinates as strings.
	lat, err := strconv.ParseFloat(d[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse latitude %q: %w", d[0].Lat, err)
	}

	lng, err := strconv.ParseFloat(d[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse longitude %q: %w", d[0].Lon, err)
	}

	return &City{
		DisplayName: d[0].DisplayName,
		Latitude:    lat,
		Longitude:   lng,
	}, nil
}

type searchResult struct {
	PlaceID     int64   `json:"place_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Lat         string  `json:"lat,omitempty"`
	Lon         string  `json:"lon,omitempty"`
	Class       string  `json:"class,omitempty"`
	Type        string  `json:"type,omitempty"`
	Importance  float64 `json:"importance,omitempty"`
}
