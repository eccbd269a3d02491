// README: Shipment handlers for create/get/advance.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shipscope/internal/modules/shipment"
	"shipscope/internal/types"
)

type ShipmentHandler struct {
	shipment *shipment.Service
}

func NewShipmentHandler(svc *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{shipment: svc}
}

type createShipmentReq struct {
	TrackingNumber string `json:"trackingNumber"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
}

func (h *ShipmentHandler) Create(c *gin.Context) {
	var req createShipmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sh, err := h.shipment.Create(c.Request.Context(), shipment.CreateCommand{
		TrackingNumber: req.TrackingNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
	})
	if err != nil {
		writeShipmentError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, shipmentJSON(sh))
}

func (h *ShipmentHandler) Get(c *gin.Context) {
	sh, err := h.shipment.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeShipmentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, shipmentJSON(sh))
}

func (h *ShipmentHandler) Advance(c *gin.Context) {
	sh, err := h.shipment.Advance(c.Request.Context(), shipment.AdvanceCommand{
		ShipmentID: types.ID(c.Param("id")),
	})
	if err != nil {
		writeShipmentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, shipmentJSON(sh))
}

func shipmentJSON(sh *shipment.Shipment) gin.H {
	out := gin.H{
		"id":             sh.ID,
		"trackingNumber": sh.TrackingNumber,
		"carrierCode":    sh.CarrierCode,
		"carrierName":    sh.CarrierName,
		"origin":         sh.Origin,
		"destination":    sh.Destination,
		"originPos":      sh.OriginPos,
		"destinationPos": sh.DestinationPos,
		"currentPos":     sh.CurrentPos,
		"status":         sh.Status,
		"eta":            sh.Eta,
		"etaConfidence":  sh.EtaConfidence,
		"createdAt":      sh.CreatedAt,
	}
	if sh.DeliveredAt != nil {
		out["deliveredAt"] = sh.DeliveredAt
	}
	return out
}
