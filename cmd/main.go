package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-audio-processor/internal/app"
	"medical-audio-processor/internal/config"
	httpapi "medical-audio-processor/internal/http"
	"medical-audio-processor/internal/observability"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(context.Background()); err != nil {
		log.Fatalf("failed to start application: %v", err)
	}
	defer application.Shutdown()

	// Metrics and health probes on a separate listener
	metricsServer := observability.NewServer(cfg.Observability.MetricsAddr)
	metricsServer.Start()

	handler := httpapi.NewHandler(
		application.Processor,
		application.Agent,
		application.Publisher,
		cfg.Service.UploadDir,
		cfg.Actions.DefaultRecipient,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Medical audio processor started on :%s", cfg.Service.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics shutdown: %v", err)
	}
}
