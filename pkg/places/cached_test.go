package places_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/manzanit0/pizzry/pkg/places"
)

type countingClient struct {
	mu     sync.Mutex
	calls  int
	result []places.Place
	err    error
}

func (c *countingClient) FindPizzaPlaces(_ context.Context, lat, lng, radius float64) ([]places.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = c.calls + 1
	return c.result, c.err
}

func (c *countingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCachedClientMemoisesIdenticalLookups(t *testing.T) {
	inner := &countingClient{result: []places.Place{{ID: "1", Name: "Tony's"}}}

	client, err := places.NewCachedClient(inner, places.DefaultCacheSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	first, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	second, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if got := inner.callCount(); got != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", got)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cache hit returned a different result: %+v vs %+v", first, second)
	}
}

func TestCachedClientDistinguishesKeys(t *testing.T) {
	inner := &countingClient{result: []places.Place{}}

	client, err := places.NewCachedClient(inner, places.DefaultCacheSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	lookups := [][3]float64{
		{40.7589, -73.9851, 0.05},
		{40.7589, -73.9851, 0.1}, // same center, different radius
		{40.7589, -73.9850, 0.05},
		{40.7589, -73.9851, 0.05}, // repeat of the first
	}
	for _, l := range lookups {
		if _, err := client.FindPizzaPlaces(context.Background(), l[0], l[1], l[2]); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	if got := inner.callCount(); got != 3 {
		t.Errorf("expected 3 upstream calls, got %d", got)
	}
}

func TestCachedClientSwallowsUpstreamFailures(t *testing.T) {
	inner := &countingClient{err: errors.New("overpass is down")}

	client, err := places.NewCachedClient(inner, places.DefaultCacheSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	got, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05)
	if err != nil {
		t.Fatalf("expected the failure to be swallowed, got: %s", err)
	}

	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty list, got: %+v", got)
	}

	// The failure result is cached like any other: no second upstream call.
	if _, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if got := inner.callCount(); got != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", got)
	}
}

func TestCachedClientEvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingClient{result: []places.Place{}}

	client, err := places.NewCachedClient(inner, 2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	lookup := func(lat float64) {
		t.Helper()
		if _, err := client.FindPizzaPlaces(context.Background(), lat, 0, 0.05); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	lookup(1) // miss
	lookup(2) // miss
	lookup(3) // miss, evicts 1
	lookup(3) // hit
	lookup(2) // hit
	lookup(1) // miss again

	if got := inner.callCount(); got != 4 {
		t.Errorf("expected 4 upstream calls, got %d", got)
	}
}

func TestCachedClientDedupesConcurrentLookups(t *testing.T) {
	release := make(chan struct{})
	inner := &blockingClient{release: release}

	client, err := places.NewCachedClient(inner, places.DefaultCacheSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	var started, wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		started.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			if _, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05); err != nil {
				t.Errorf("unexpected error: %s", err)
			}
		}()
	}

	// The first lookup blocks on the upstream until released, so by waiting
	// here every other goroutine has time to join the same flight.
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := inner.callCount(); got != 1 {
		t.Errorf("expected concurrent lookups to share 1 upstream call, got %d", got)
	}
}

func TestCachedClientKeepsNearIdenticalKeysApart(t *testing.T) {
	release := make(chan struct{})
	inner := &radiusEchoClient{release: release}

	client, err := places.NewCachedClient(inner, places.DefaultCacheSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Both radii round to the same 6-decimal string; only a lossless flight
	// key keeps them on separate upstream calls.
	radii := []float64{1e-7, 2e-7}
	results := make([][]places.Place, len(radii))

	var started, wg sync.WaitGroup
	for i, radius := range radii {
		i, radius := i, radius
		started.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			got, err := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, radius)
			if err != nil {
				t.Errorf("unexpected error: %s", err)
			}
			results[i] = got
		}()
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := inner.callCount(); got != 2 {
		t.Errorf("expected 2 upstream calls for distinct keys, got %d", got)
	}

	for i, radius := range radii {
		want := strconv.FormatFloat(radius, 'g', -1, 64)
		if len(results[i]) != 1 || results[i][0].ID != want {
			t.Errorf("lookup with radius %s got another key's result: %+v", want, results[i])
		}
	}
}

// radiusEchoClient answers every lookup with a single place whose ID is the
// radius it was asked for, so tests can tell whose result a caller received.
type radiusEchoClient struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (c *radiusEchoClient) FindPizzaPlaces(_ context.Context, lat, lng, radius float64) ([]places.Place, error) {
	c.mu.Lock()
	c.calls = c.calls + 1
	c.mu.Unlock()

	<-c.release
	return []places.Place{{ID: strconv.FormatFloat(radius, 'g', -1, 64)}}, nil
}

func (c *radiusEchoClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type blockingClient struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (c *blockingClient) FindPizzaPlaces(_ context.Context, lat, lng, radius float64) ([]places.Place, error) {
	c.mu.Lock()
	c.calls = c.calls + 1
	c.mu.Unlock()

	<-c.release
	return []places.Place{}, nil
}

func (c *blockingClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func ExampleNewCachedClient() {
	client, _ := places.NewCachedClient(&countingClient{result: []places.Place{}}, places.DefaultCacheSize)
	pizzaPlaces, _ := client.FindPizzaPlaces(context.Background(), 40.7589, -73.9851, 0.05)
	fmt.Println(len(pizzaPlaces))
	// Output: 0
}
