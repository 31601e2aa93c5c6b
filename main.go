package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/hannaerdza/titanic-visualization/adapters/api"
	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/config"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
	"github.com/hannaerdza/titanic-visualization/internal/ops"
	"github.com/hannaerdza/titanic-visualization/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	defer logger.Sync()

	gin.SetMode(appConfig.Server.GinMode)
	m := metrics.New()

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: appConfig.API.BaseURL,
		Timeout: appConfig.API.Timeout,
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("Failed to create passenger API client: %v", err)
		os.Exit(1)
	}

	server, err := ui.NewServer(client, ui.ServerConfig{
		MaxUploadBytes:     appConfig.Upload.MaxBytes,
		DefaultRowsPerPage: appConfig.Table.DefaultRowsPerPage,
		SessionTTL:         appConfig.Session.TTL,
	}, m, logger)
	if err != nil {
		logger.Error("Failed to create web server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Passenger API at %s (timeout %s)", appConfig.API.BaseURL, appConfig.API.Timeout)

	g, ctx := errgroup.WithContext(ctx)
	if appConfig.Ops.Enabled {
		g.Go(func() error {
			return ops.Serve(ctx, ":"+appConfig.Ops.Port, m, logger)
		})
	}
	g.Go(func() error {
		return server.Start(ctx, ":"+appConfig.Server.Port)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
