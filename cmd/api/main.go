package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grid-mix/internal/api"
	"grid-mix/internal/api/handlers"
	"grid-mix/internal/config"
	"grid-mix/internal/observability/metrics"
	"grid-mix/internal/pipeline"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("MIX_CONFIG"), "Optional path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bmrs, neso, cache := cfg.NewClients()
	if cache != nil {
		log.Printf("Response cache enabled (ttl=%s)", cfg.Cache.TTL.Std())
		go cache.RunCleanup(ctx, cfg.Cache.TTL.Std())
	}

	runner := pipeline.NewRunner(bmrs, neso, log.New(os.Stdout, "", log.LstdFlags))
	mixHandler := handlers.NewMixHandler(runner, cfg.LookbackHours, cfg.Output.CSVPath, cfg.Output.XLSXPath)
	router := api.NewRouter(mixHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on %s (output=%s)", srv.Addr, cfg.Output.CSVPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
