// README: Carrier handlers for detect/probe/aggregate.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipscope/internal/modules/aggregator"
	"shipscope/internal/modules/carrier"
)

type CarrierHandler struct {
	detector     *carrier.Detector
	aggregator   *aggregator.Service
	defaultLimit int
}

func NewCarrierHandler(detector *carrier.Detector, agg *aggregator.Service, defaultLimit int) *CarrierHandler {
	return &CarrierHandler{detector: detector, aggregator: agg, defaultLimit: defaultLimit}
}

func (h *CarrierHandler) Detect(c *gin.Context) {
	trackingNumber := c.Query("trackingNumber")
	if trackingNumber == "" {
		writeError(c, http.StatusBadRequest, "missing trackingNumber")
		return
	}
	guesses := h.detector.Detect(trackingNumber, parseLimit(c, h.defaultLimit))
	if guesses == nil {
		guesses = []carrier.Guess{}
	}
	writeJSON(c, http.StatusOK, gin.H{"trackingNumber": trackingNumber, "guesses": guesses})
}

func (h *CarrierHandler) Probe(c *gin.Context) {
	trackingNumber := c.Query("trackingNumber")
	if trackingNumber == "" {
		writeError(c, http.StatusBadRequest, "missing trackingNumber")
		return
	}
	probes := h.detector.Probe(trackingNumber, parseLimit(c, h.defaultLimit))
	if probes == nil {
		probes = []carrier.Probe{}
	}
	writeJSON(c, http.StatusOK, gin.H{"trackingNumber": trackingNumber, "candidates": probes})
}

func (h *CarrierHandler) Aggregate(c *gin.Context) {
	trackingNumber := c.Query("trackingNumber")
	if trackingNumber == "" {
		writeError(c, http.StatusBadRequest, "missing trackingNumber")
		return
	}
	res := h.aggregator.Aggregate(c.Request.Context(), trackingNumber, parseLimit(c, h.defaultLimit), c.Query("carrier"))
	writeJSON(c, http.StatusOK, res)
}
