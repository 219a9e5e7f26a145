package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/messaging"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/outbox"
	"github.com/sowmya-kancharla03/CuraCare/internal/config"
)

func probe(ok func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "UP", http.StatusOK
		if !ok() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		middleware.WriteJSON(w, code, map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	}
}

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.Logging, "curacare-relay")

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.Exchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer broker.Close()
	log.Info().Str("exchange", cfg.Exchange).Msg("connected to rabbitmq")

	relay := outbox.NewRelay(db, cfg.Database.URL, broker)

	r := mux.NewRouter()
	r.HandleFunc("/health", probe(relay.IsHealthy)).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", probe(func() bool {
		return relay.IsReady() && !broker.IsClosed()
	})).Methods(http.MethodGet)

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.HealthPort).Msg("starting health server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("relay stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server shutdown failed")
	}
	log.Info().Msg("relay stopped")
}
