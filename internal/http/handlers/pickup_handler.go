// README: Pickup optimization handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipscope/internal/modules/pickup"
)

type PickupHandler struct {
	pickup *pickup.Service
}

func NewPickupHandler(svc *pickup.Service) *PickupHandler {
	return &PickupHandler{pickup: svc}
}

type optimizePickupReq struct {
	Origin      string              `json:"origin"`
	Destination string              `json:"destination"`
	Carriers    []string            `json:"carriers"`
	Preferences *pickup.Preferences `json:"preferences"`
}

func (h *PickupHandler) Optimize(c *gin.Context) {
	var req optimizePickupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Destination == "" {
		writeError(c, http.StatusBadRequest, "missing destination")
		return
	}
	res := h.pickup.Optimize(c.Request.Context(), req.Origin, req.Destination, req.Carriers, req.Preferences)
	writeJSON(c, http.StatusOK, res)
}
