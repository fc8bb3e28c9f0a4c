package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/places"
)

// PlacesHandler exposes the nearby-places lookup used while composing a
// post's location tag.
type PlacesHandler struct {
	lookup places.Lookup
	logger *zap.Logger
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(lookup places.Lookup, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{lookup: lookup, logger: logger}
}

// FindNearby handles GET /api/v1/places/nearby?lat=&lng=.
func (h *PlacesHandler) FindNearby(c *gin.Context) {
	if h.lookup == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Places lookup is not configured"})
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng query parameters are required"})
		return
	}

	candidates, err := h.lookup.FindNearbyPlaces(c.Request.Context(), lat, lng)
	if err != nil {
		h.logger.Error("nearby places lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Could not fetch nearby places"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": candidates})
}
