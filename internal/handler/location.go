package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/meetpoint/internal/apperrors"
	"github.com/mmynk/meetpoint/internal/geo"
	"github.com/mmynk/meetpoint/internal/middleware"
	"github.com/mmynk/meetpoint/internal/service"
)

// LocationHandler exposes location reporting and meeting point
// calculation over HTTP.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler creates a location handler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type updateLocationRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	AccuracyM *float64 `json:"accuracy_m"`
}

// UpdateLocation handles PUT /sessions/:id/location.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.E(apperrors.KindValidation, "latitude and longitude are required"))
		return
	}

	loc, err := geo.NewLocation(req.Latitude, req.Longitude, req.AccuracyM)
	if err != nil {
		writeError(c, err)
		return
	}

	record, err := h.locations.UpdateLocation(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), loc)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"participant_id": record.ParticipantID,
		"latitude":       record.Location.Latitude,
		"longitude":      record.Location.Longitude,
		"updated_at":     record.UpdatedAt,
	}
	if record.Location.AccuracyM != nil {
		resp["accuracy_m"] = *record.Location.AccuracyM
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateOptimal handles POST /sessions/:id/optimal-location.
func (h *LocationHandler) CalculateOptimal(c *gin.Context) {
	result, err := h.locations.CalculateOptimal(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id":         result.SessionID,
		"optimal_latitude":  result.Location.Latitude,
		"optimal_longitude": result.Location.Longitude,
		"total_travel_km":   result.TotalTravelKm,
		"participant_count": result.ParticipantCount,
	})
}
