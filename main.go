package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/manzanit0/pizzry/pkg/env"
	"github.com/manzanit0/pizzry/pkg/geocode"
	"github.com/manzanit0/pizzry/pkg/logger"
	"github.com/manzanit0/pizzry/pkg/middleware"
	"github.com/manzanit0/pizzry/pkg/places"
	"github.com/manzanit0/pizzry/pkg/whttp"
)

const ServiceName = "pizza-map-api"

func init() {
	logger.InitGlobalSlog(ServiceName)
}

func main() {
	_ = godotenv.Load()

	finder, err := newPlacesClient()
	if err != nil {
		panic(err)
	}

	geocoder, err := newGeocoder()
	if err != nil {
		panic(err)
	}

	r := newRouter(finder, geocoder)

	port := env.Port()
	printEndpoints(port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: r}
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server shutdown abruptly", "error", err.Error())
		} else {
			slog.Info("server shutdown gracefully")
		}

		stop()
	}()

	// Listen for OS interrupt
	<-ctx.Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err.Error())
	}

	slog.Info("server exited")
}

func newRouter(finder places.Client, geocoder geocode.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(false))

	// The map frontend is served from anywhere, so any origin goes.
	r.Use(cors.Default())

	r.GET("/api/pizza-places", getPizzaPlaces(finder))
	r.GET("/api/search-city", searchCity(geocoder))
	r.GET("/api/health", healthCheck)

	return r
}

func newPlacesClient() (places.Client, error) {
	timeout, err := env.OverpassTimeout()
	if err != nil {
		return nil, err
	}

	overpass := places.NewOverpassClient(whttp.NewLoggingClient(timeout), env.OverpassURL())

	size, err := env.PlacesCacheSize()
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = places.DefaultCacheSize
	}

	return places.NewCachedClient(overpass, size)
}

func newGeocoder() (geocode.Client, error) {
	if os.Getenv("GEOCODER") == "geo-golang" {
		return geocode.NewOpenstreetmapClient(), nil
	}

	timeout, err := env.NominatimTimeout()
	if err != nil {
		return nil, err
	}

	return geocode.NewNominatimClient(whttp.NewLoggingClient(timeout), env.NominatimURL(), env.UserAgent()), nil
}

func printEndpoints(port string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Endpoint"})
	table.Append([]string{"GET", fmt.Sprintf("http://localhost:%s/api/pizza-places?lat=40.7589&lng=-73.9851", port)})
	table.Append([]string{"GET", fmt.Sprintf("http://localhost:%s/api/search-city?city=New York", port)})
	table.Append([]string{"GET", fmt.Sprintf("http://localhost:%s/api/health", port)})
	table.Render()
}
