package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bidops/bid-data-service/internal/config"
	"github.com/bidops/bid-data-service/internal/db"
	"github.com/bidops/bid-data-service/internal/export"
	httphandler "github.com/bidops/bid-data-service/internal/http"
	"github.com/bidops/bid-data-service/internal/job"
	"github.com/bidops/bid-data-service/internal/logger"
	"github.com/bidops/bid-data-service/internal/openapi"
	"github.com/bidops/bid-data-service/internal/repository"
	"github.com/bidops/bid-data-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	client, database, err := db.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() {
		if err := db.Disconnect(client); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	bidRepo := repository.NewBidRepository(database)
	bidService := service.NewBidService(bidRepo, export.NewExcelGenerator(), export.NewPDFGenerator(), log)

	endpoint := cfg.OpenAPI.Endpoint
	if endpoint == "" {
		endpoint = openapi.DefaultEndpoint
	}
	openClient := openapi.NewClient(endpoint, cfg.OpenAPI.APIKey)

	if cfg.Sync.Enabled {
		syncer := job.NewSyncer(openClient, bidRepo, cfg.Sync.PageSize, log)
		scheduler, err := syncer.Schedule(cfg.Sync.Schedule)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule bid sync")
		}
		defer scheduler.Stop()
		log.Info().Str("schedule", cfg.Sync.Schedule).Msg("bid sync scheduled")
	}

	handler := httphandler.NewHandler(bidService, openClient, log)
	router := httphandler.NewRouter(handler, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting bid data service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
