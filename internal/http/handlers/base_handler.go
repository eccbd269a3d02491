// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shipscope/internal/modules/shipment"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeShipmentError(c *gin.Context, err error) {
	switch err {
	case shipment.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	case shipment.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case shipment.ErrInvalidState, shipment.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseLimit clamps the candidate limit to [1, 20]; absent or malformed
// values fall back to def.
func parseLimit(c *gin.Context, def int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}
