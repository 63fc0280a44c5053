// package env contains simple getters for the environment variables the
// service is configured through, alongside their defaults. Every default
// lives here rather than scattered around call sites.
package env

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort         = "8080"
	defaultOverpassURL  = "http://overpass-api.de/api/interpreter"
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "pizzry/1.0 (github.com/manzanit0/pizzry)"

	defaultOverpassTimeout  = 30 * time.Second
	defaultNominatimTimeout = 10 * time.Second
)

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}

	return defaultPort
}

func OverpassURL() string {
	if u := os.Getenv("OVERPASS_URL"); u != "" {
		return u
	}

	return defaultOverpassURL
}

func NominatimURL() string {
	if u := os.Getenv("NOMINATIM_URL"); u != "" {
		return u
	}

	return defaultNominatimURL
}

// UserAgent identifies the service against Nominatim, per its usage policy.
func UserAgent() string {
	if ua := os.Getenv("USER_AGENT"); ua != "" {
		return ua
	}

	return defaultUserAgent
}

func OverpassTimeout() (time.Duration, error) {
	return timeoutFromEnv("OVERPASS_TIMEOUT_SECONDS", defaultOverpassTimeout)
}

func NominatimTimeout() (time.Duration, error) {
	return timeoutFromEnv("NOMINATIM_TIMEOUT_SECONDS", defaultNominatimTimeout)
}

func PlacesCacheSize() (int, error) {
	raw := os.Getenv("PLACES_CACHE_SIZE")
	if raw == "" {
		return 0, nil
	}

	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse PLACES_CACHE_SIZE as integer: %s", err.Error())
	}

	if size <= 0 {
		return 0, fmt.Errorf("PLACES_CACHE_SIZE must be positive, got %d", size)
	}

	return size, nil
}

func timeoutFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s as integer: %s", name, err.Error())
	}

	return time.Duration(seconds) * time.Second, nil
}
