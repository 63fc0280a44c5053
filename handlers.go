package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/pizzry/pkg/geocode"
	"github.com/manzanit0/pizzry/pkg/places"
)

// Defaults for when the frontend doesn't say where to look: Times Square.
const (
	defaultLatitude  = 40.7589
	defaultLongitude = -73.9851
	defaultRadius    = 0.05
)

func getPizzaPlaces(finder places.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := queryFloat(c, "lat", defaultLatitude)
		lng, errLng := queryFloat(c, "lng", defaultLongitude)
		radius, errRadius := queryFloat(c, "radius", defaultRadius)
		if errLat != nil || errLng != nil || errRadius != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinate values"})
			return
		}

		// NaN parses as a float but fails every range comparison, so it has
		// to be ruled out explicitly.
		if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}

		pizzaPlaces, err := finder.FindPizzaPlaces(c.Request.Context(), lat, lng, radius)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(pizzaPlaces),
			"center":  gin.H{"lat": lat, "lng": lng},
			"places":  pizzaPlaces,
		})
	}
}

func searchCity(geocoder geocode.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("city")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "City parameter required"})
			return
		}

		city, err := geocoder.FindCity(c.Request.Context(), name)
		if errors.Is(err, geocode.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"city":    city.DisplayName,
			"lat":     city.Latitude,
			"lng":     city.Longitude,
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

func queryFloat(c *gin.Context, name string, fallback float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(raw, 64)
}
