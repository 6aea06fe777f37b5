package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/places"
)

// PlacesHandler proxies place lookups for the frontend.
type PlacesHandler struct {
	searcher core.PlacesSearcher
	logger   *zap.Logger
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(searcher core.PlacesSearcher, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{searcher: searcher, logger: logger}
}

// GetPlaceDetails handles GET /api/get-place-details?query=... and returns
// the first text search match.
func (h *PlacesHandler) GetPlaceDetails(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter is required"})
		return
	}

	place, err := h.searcher.TextSearch(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, places.ErrNoResults) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No matching place found"})
			return
		}
		h.logger.Error("Places lookup failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Places provider error"})
		return
	}

	c.JSON(http.StatusOK, PlaceDetailsResponse{
		PlaceID:          place.PlaceID,
		Name:             place.Name,
		FormattedAddress: place.FormattedAddress,
		Rating:           place.Rating,
		ReviewURL:        places.ReviewURL(place.PlaceID),
	})
}
