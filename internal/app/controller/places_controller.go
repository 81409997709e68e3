package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewbot/brewbot-backend/internal/app/service"
	apperrors "github.com/brewbot/brewbot-backend/internal/errors"
)

// PlacesController proxies autocomplete and place-details lookups so the
// frontend never sees the maps API key.
type PlacesController struct {
	findPlacesService *service.FindPlacesService
}

func NewPlacesController(findPlacesService *service.FindPlacesService) *PlacesController {
	return &PlacesController{
		findPlacesService: findPlacesService,
	}
}

// Autocomplete returns address predictions.
// GET /find_places/places/autocomplete?input&session_token&types&components
func (ctrl *PlacesController) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	sessionToken := c.Query("session_token")
	if input == "" || sessionToken == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "input and session_token are required")
		return
	}
	types := c.DefaultQuery("types", "geocode")
	components := c.Query("components")

	predictions, err := ctrl.findPlacesService.Autocomplete(c.Request.Context(), input, sessionToken, types, components)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, predictions)
}

// Details resolves a place into coordinates and address.
// GET /find_places/places/details?place_id&session_token
func (ctrl *PlacesController) Details(c *gin.Context) {
	placeID := c.Query("place_id")
	sessionToken := c.Query("session_token")
	if placeID == "" || sessionToken == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "place_id and session_token are required")
		return
	}

	details, err := ctrl.findPlacesService.Details(c.Request.Context(), placeID, sessionToken)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

func (ctrl *PlacesController) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMissingMapsKey) {
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UpstreamMissingMapsKey, "Missing Google Maps API key")
		return
	}
	var upstream *service.UpstreamStatusError
	if errors.As(err, &upstream) {
		// The provider payload goes back to the client for debugging.
		apperrors.BadRequest(c, apperrors.UpstreamMapsError, upstream.Body)
		return
	}
	apperrors.ParseAndRespond(c, err, "places")
}
