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

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/handler"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/metrics"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/middleware"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/repository"
	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/session"
	"github.com/sowmya-kancharla03/CuraCare/internal/config"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/services"
)

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.SetupLogging(cfg.Logging, "curacare-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	repo := repository.NewSQLRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", cfg.RedisAddress).Msg("connected to redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "curacare"),
	)
	collector := metrics.NewCollector(reg)

	roles := services.NewRoleResolver(repo, repo)
	authService := services.NewAuthService(
		repo,
		repo,
		session.NewRedisStore(redisClient),
		session.NewRedisNotifier(redisClient),
		cfg.JWTPrivateKey,
		cfg.SessionTTL,
	)
	appointmentService := services.NewAppointmentService(repo, repo, collector)

	limiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	go limiter.Run(ctx)

	router := handler.NewRouter(handler.Routes{
		Auth:         handler.NewAuthHandler(authService, roles),
		Doctors:      handler.NewDoctorHandler(services.NewDoctorService(repo)),
		Appointments: handler.NewAppointmentHandler(appointmentService),
		Health: handler.NewHealthHandler(cfg.Version, map[string]handler.CheckFunc{
			"database": repo.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		}),
		Guard:          middleware.NewAuthMiddleware(authService, roles),
		Limiter:        limiter,
		Observer:       collector,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	var h http.Handler = router
	h = middleware.RequestLogger(logger)(h)
	h = middleware.CORSMiddleware(cfg.AllowedOrigins)(h)
	h = handlers.ProxyHeaders(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}), handlers.PrintRecoveryStack(true))(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("version", cfg.Version).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
