package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"store-route-assistant/internal/api"
	"store-route-assistant/internal/api/handlers"
	"store-route-assistant/internal/app"
	"store-route-assistant/internal/config"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/services"
	"time"

	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (planner backend, caches, registry) behind ports
// and starts the HTTP server.
func main() {
	configFile := flag.String("config", "", "config file (default is $HOME/.store-route.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		obs.Log.Fatal(err)
	}
	if err := obs.SetLogLevel(cfg.LogLevel); err != nil {
		obs.Log.Fatal(err)
	}

	store, dialect, err := app.OpenStore(cfg)
	if err != nil {
		obs.Log.Fatal(err)
	}
	if store != nil {
		defer store.Close()
	}

	registry, tripPlanner, err := app.BuildAdapters(cfg, store, app.RouteCache(cfg, store, dialect))
	if err != nil {
		obs.Log.Fatal(err)
	}

	session := &handlers.SessionHandler{
		Registry: registry,
		Planner:  tripPlanner,
		Options: services.SessionOptions{
			StoreLayout: cfg.StoreLayout,
			NoticeTTL:   cfg.NoticeTTL,
		},
		Floorplan:     domain.DefaultLayout(),
		FrameInterval: cfg.FrameInterval,
	}

	// The server starts even when the registry is unreachable; /reload retries.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout*time.Duration(cfg.RetryMax+1))
	if err := session.Load(obs.WithRequestID(ctx)); err != nil {
		obs.Log.WithError(err).Error("store layout not loaded")
	}
	cancel()

	router := api.NewRouter(session)

	// The write timeout is left open for the cursor event stream.
	obs.Log.WithFields(logrus.Fields{
		"addr":     ":" + cfg.Port,
		"offline":  cfg.Offline,
		"registry": cfg.RegistrySource,
	}).Info("server listening")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		obs.Log.Fatal(err)
	}
}
