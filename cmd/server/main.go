package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	api "meeting-assistant-service/internal/api/http"
	"meeting-assistant-service/internal/app"
	"meeting-assistant-service/internal/config"
	"meeting-assistant-service/internal/events"
	"meeting-assistant-service/internal/observability"
	"meeting-assistant-service/internal/recall"
	"meeting-assistant-service/internal/service/assistant"
	"meeting-assistant-service/internal/service/meetingdata"
)

func main() {
	// Best-effort: environment variables win over .env contents
	_ = godotenv.Load()

	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		application.Logger.Fatal().Err(err).Msg("Startup failed")
	}

	// Webhook event forwarding, log-only unless Kafka is enabled
	publisher := events.New(&events.Config{
		Enabled:   cfg.Kafka.Enabled,
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		Principal: cfg.Kafka.Principal,
	})
	defer publisher.Close()

	provider := recall.New(cfg.Recall)
	handlers := api.NewHandlers(
		cfg,
		provider,
		meetingdata.New(provider),
		assistant.New(cfg.AI),
		publisher,
		application.Logger,
	)

	obsServer := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obsServer.Start()

	server := &http.Server{
		Addr:         ":" + cfg.Service.Port,
		Handler:      api.NewRouter(application, handlers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		application.Logger.Info().Str("addr", server.Addr).Msg("Meeting assistant service started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			application.Logger.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	application.Logger.Info().Msg("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("HTTP shutdown error")
	}
	if err := obsServer.Shutdown(ctx); err != nil {
		application.Logger.Error().Err(err).Msg("Observability shutdown error")
	}
	application.Shutdown()
}
