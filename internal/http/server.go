// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shipscope/internal/http/handlers"
	"shipscope/internal/http/middleware"
	"shipscope/internal/modules/aggregator"
	"shipscope/internal/modules/carrier"
	"shipscope/internal/modules/pickup"
	"shipscope/internal/modules/shipment"
)

type ServerDeps struct {
	Detector     *carrier.Detector
	Aggregator   *aggregator.Service
	Pickup       *pickup.Service
	Shipment     *shipment.Service
	DefaultLimit int
	Log          zerolog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Log), middleware.Logging(s.deps.Log))

	carrierHandler := handlers.NewCarrierHandler(s.deps.Detector, s.deps.Aggregator, s.deps.DefaultLimit)
	r.GET("/v1/carriers/detect", carrierHandler.Detect)
	r.GET("/v1/carriers/probe", carrierHandler.Probe)
	r.GET("/v1/carriers/aggregate", carrierHandler.Aggregate)

	etaHandler := handlers.NewEtaHandler()
	r.GET("/v1/eta", etaHandler.Predict)

	pickupHandler := handlers.NewPickupHandler(s.deps.Pickup)
	r.POST("/v1/pickup/optimize", pickupHandler.Optimize)

	if s.deps.Shipment != nil {
		shipmentHandler := handlers.NewShipmentHandler(s.deps.Shipment)
		r.POST("/v1/shipments", shipmentHandler.Create)
		r.GET("/v1/shipments/:id", shipmentHandler.Get)
		r.POST("/v1/shipments/:id/advance", shipmentHandler.Advance)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
