package main

import (
	"fmt"
	"os"

	"github.com/nurpe/smeta-acts/internal/auth"
	"github.com/nurpe/smeta-acts/internal/catalog"
	"github.com/nurpe/smeta-acts/internal/config"
	"github.com/nurpe/smeta-acts/internal/db"
	"github.com/nurpe/smeta-acts/internal/excel"
	httphandler "github.com/nurpe/smeta-acts/internal/http"
	"github.com/nurpe/smeta-acts/internal/http/middleware"
	"github.com/nurpe/smeta-acts/internal/logger"
	"github.com/nurpe/smeta-acts/internal/pdf"
	"github.com/nurpe/smeta-acts/internal/repository"
	"github.com/nurpe/smeta-acts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	estimateRepo := repository.NewEstimateRepository(database)
	actRepo := repository.NewActRepository(database)
	catalogLookup := catalog.NewCachedLookup(catalog.NewStore(database), cfg.Catalog.CacheTTL, nil)

	estimateService := service.NewEstimateService(estimateRepo, catalogLookup)
	actService := service.NewActService(actRepo, estimateRepo, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(estimateService, actService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting estimate service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
