// README: Entry point; loads config, wires services, starts HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"shipscope/internal/config"
	httptransport "shipscope/internal/http"
	"shipscope/internal/infra"
	"shipscope/internal/maps"
	"shipscope/internal/modules/aggregator"
	"shipscope/internal/modules/carrier"
	"shipscope/internal/modules/pickup"
	"shipscope/internal/modules/shipment"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "shipscope-api").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	detector := carrier.NewDetector(carrier.DefaultCatalog())
	aggregatorSvc := aggregator.NewService(cfg.Aggregator, detector, redisClient, log)

	var distance pickup.DistanceProvider
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("maps init")
		}
		distance = routeSvc
	}
	pickupSvc := pickup.NewService(distance)

	shipmentStore := shipment.NewStore(dbPool)
	shipmentSvc := shipment.NewService(shipmentStore, detector)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Detector:     detector,
		Aggregator:   aggregatorSvc,
		Pickup:       pickupSvc,
		Shipment:     shipmentSvc,
		DefaultLimit: cfg.Detect.DefaultLimit,
		Log:          log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("serve")
	}
}
