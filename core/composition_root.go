package core

import (
	"context"
	"os"

	"github.com/cryptotax/price-exporter/api"
	"github.com/cryptotax/price-exporter/cache"
	"github.com/cryptotax/price-exporter/coingecko"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/exchangerate"
	"github.com/cryptotax/price-exporter/report"
	"github.com/cryptotax/price-exporter/upstream"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	cacheService := cache.NewService(cfg.Cache)
	registry.Register(cacheService)

	// One limiter registry for all upstream clients so per-host budgets
	// hold across services
	limiters := upstream.NewRateLimiters()

	pricesService := coingecko.NewService(cacheService, cfg, coingecko.NewCoinGeckoClient(cfg, limiters))
	registry.Register(pricesService)

	ratesService := exchangerate.NewService(cacheService, cfg, exchangerate.NewClient(cfg, limiters))
	registry.Register(ratesService)

	reportService, err := report.NewService(cfg, pricesService, ratesService)
	if err != nil {
		return nil, err
	}
	registry.Register(reportService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := api.New(port, reportService, pricesService, ratesService)
	registry.Register(server)

	return registry, nil
}
