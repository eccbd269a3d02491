// README: ETA handler backed by the deterministic geo engine.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipscope/internal/modules/geosim"
)

type EtaHandler struct{}

func NewEtaHandler() *EtaHandler {
	return &EtaHandler{}
}

func (h *EtaHandler) Predict(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if destination == "" {
		writeError(c, http.StatusBadRequest, "missing destination")
		return
	}
	seed := c.Query("seed")
	if seed == "" {
		seed = destination
	}
	pred := geosim.PredictEtaWithConfidence(origin, destination, c.Query("carrier"), seed)
	writeJSON(c, http.StatusOK, pred)
}
