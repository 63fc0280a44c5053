package places

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is how many distinct (lat, lng, radius) lookups are
// remembered before the least recently used one gets evicted.
const DefaultCacheSize = 100

// NewCachedClient wraps a Client with a bounded LRU memoization layer keyed
// on the exact (lat, lng, radius) triple. Entries never expire: a location
// looked up once serves the same answer for the lifetime of the process.
//
// Upstream failures are swallowed here: the caller always gets a list, and a
// failed lookup is cached as an empty one. Concurrent lookups for the same
// key share a single upstream call.
func NewCachedClient(inner Client, size int) (*CachedClient, error) {
	cache, err := lru.New[cacheKey, []Place](size)
	if err != nil {
		return nil, fmt.Errorf("unable to create places cache: %w", err)
	}

	return &CachedClient{inner: inner, cache: cache}, nil
}

type CachedClient struct {
	inner Client
	cache *lru.Cache[cacheKey, []Place]
	group singleflight.Group
}

var _ Client = (*CachedClient)(nil)

type cacheKey struct {
	Lat    float64
	Lng    float64
	Radius float64
}

// flightKey renders the triple losslessly. Anything shorter would merge
// distinct keys into one in-flight call and hand a caller another key's
// places.
func (k cacheKey) flightKey() string {
	return strings.Join([]string{
		strconv.FormatFloat(k.Lat, 'g', -1, 64),
		strconv.FormatFloat(k.Lng, 'g', -1, 64),
		strconv.FormatFloat(k.Radius, 'g', -1, 64),
	}, ":")
}

func (c *CachedClient) FindPizzaPlaces(ctx context.Context, lat, lng, radius float64) ([]Place, error) {
	key := cacheKey{Lat: lat, Lng: lng, Radius: radius}
	if pizzaPlaces, ok := c.cache.Get(key); ok {
		return pizzaPlaces, nil
	}

	v, _, _ := c.group.Do(key.flightKey(), func() (interface{}, error) {
		pizzaPlaces, err := c.inner.FindPizzaPlaces(ctx, lat, lng, radius)
		if err != nil {
			slog.ErrorContext(ctx, "pizza place lookup failed, serving empty result",
				"error", err.Error(),
				"upstream_failure", true,
				"lat", lat,
				"lng", lng,
				"radius", radius)

			pizzaPlaces = []Place{}
		}

		c.cache.Add(key, pizzaPlaces)
		return pizzaPlaces, nil
	})

	return v.([]Place), nil
}
