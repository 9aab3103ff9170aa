package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/common/observability"
	"business-notifier/internal/common/validation"
	"business-notifier/internal/directory"
	"business-notifier/internal/models"
	"business-notifier/internal/notify"
	"business-notifier/internal/notify/provider"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxPayloadBytes = 1 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	appLog := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// --- Staff directory ---
	dir, err := directory.NewPostgres(cfg.Database.Postgres, cfg.Notifications.StaffPrefix, appLog)
	if err != nil {
		zapLog.Fatal("failed to open staff directory", zap.Error(err))
	}
	defer dir.Close()

	if err := dir.Ping(startupCtx); err != nil {
		// Delivery degrades to client-only recipients when the directory is
		// down, so this is not fatal.
		zapLog.Warn("staff directory unreachable at startup", zap.Error(err))
	}

	// --- Delivery providers ---
	var sesClient provider.SESAPI
	if cfg.Providers.Transactional.Enabled {
		sesClient, err = provider.NewSESClient(startupCtx, cfg.Providers.Transactional.Region)
		if err != nil {
			zapLog.Warn("transactional API client unavailable", zap.Error(err))
		}
	}

	providers := provider.Build(cfg.Providers, cfg.Notifications, sesClient, appLog)
	for _, p := range providers {
		if smtpProvider, ok := p.(*provider.SMTPProvider); ok {
			if err := smtpProvider.VerifyConnection(startupCtx); err != nil {
				zapLog.Warn("provider connectivity probe failed",
					zap.String("provider", p.Name()), zap.Error(err))
			}
		}
	}

	// --- Pipeline ---
	engine := notify.NewEngine(cfg, dir, providers, obs, appLog)
	notifier := notify.NewNotifier(engine, cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	notifier.Start()

	// --- Ingest, health & metrics server ---
	go func() {
		http.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}

			if err := validation.ValidateEventPayload(body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			var event models.NotificationEvent
			if err := json.Unmarshal(body, &event); err != nil {
				http.Error(w, "malformed payload", http.StatusBadRequest)
				return
			}

			notifier.Notify(&event)

			// Delivery is fire-and-forget: the caller only learns that the
			// event was scheduled, never the outcome.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"scheduled": true,
				"eventId":   event.ID,
			})
		})
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zapLog.Info("Ingest/metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Ingest/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining dispatcher...")
	notifier.Stop(config.GetDuration(cfg.Dispatch.DrainTimeout))
	zapLog.Info("Notifier stopped")
}
