// Package transferengine wires the recommendation engine, the upstream
// clients, and the HTTP shell into a runnable service. The interesting
// logic lives in the engine, timetable, and trips packages; this one only
// routes requests and translates errors.
package transferengine

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/warsaw-transit-tools/transfer-engine/config"
	"github.com/warsaw-transit-tools/transfer-engine/engine"
	"github.com/warsaw-transit-tools/transfer-engine/route"
	"github.com/warsaw-transit-tools/transfer-engine/timetable"
	"github.com/warsaw-transit-tools/transfer-engine/trips"
)

// Service holds the constructed components and the optional default
// snapshot served on GET when no snapshot body is posted.
type Service struct {
	cfg        config.AppConfig
	departures *timetable.Client
	trips      *trips.Client
	engine     *engine.Engine
	snapshot   *route.Snapshot
}

var server *http.Server

// NewService builds all components from configuration. snapshot may be nil;
// then only the POST recommendation endpoint is usable.
func NewService(cfg config.AppConfig, snapshot *route.Snapshot) *Service {
	departures := timetable.NewClient(cfg.Timetable)
	if snapshot != nil {
		if snapshot.Scoring == (route.ScoringPolicy{}) {
			snapshot.Scoring = route.ScoringFromConfig(cfg.Scoring)
		} else {
			snapshot.Scoring = snapshot.Scoring.WithDefaults()
		}
	}
	return &Service{
		cfg:        cfg,
		departures: departures,
		trips:      trips.NewClient(cfg.Trips),
		engine:     engine.New(departures),
		snapshot:   snapshot,
	}
}

func (s *Service) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/v1/recommendations", s.handleGetRecommendations)
	r.Post("/api/v1/recommendations", s.handlePostRecommendations)
	r.Get("/api/v1/departures/{stopID}", s.handleDepartures)
	r.Get("/api/v1/trips/{tripID}", s.handleTripDetails)
	return r
}

// StartServer starts the HTTP shell in the background
func (s *Service) StartServer() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM, then drains the server
func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
