package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brewbot/brewbot-backend/internal/app/service"
	apperrors "github.com/brewbot/brewbot-backend/internal/errors"
	"github.com/brewbot/brewbot-backend/pkg/logger"
)

type BenchmarkController struct {
	placesService *service.PlacesService
	reportService *service.ReportService
}

func NewBenchmarkController(placesService *service.PlacesService, reportService *service.ReportService) *BenchmarkController {
	return &BenchmarkController{
		placesService: placesService,
		reportService: reportService,
	}
}

// Nearby searches competitor coffee shops around a coordinate and replaces
// the stored competitor list.
// GET /benchmark/nearby?lat&lng&radius_m&max_results&min_rating
func (ctrl *BenchmarkController) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "lat is required and must be a number")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "lng is required and must be a number")
		return
	}

	radiusM, _ := strconv.ParseFloat(c.DefaultQuery("radius_m", "3000"), 64)
	maxResults, _ := strconv.Atoi(c.DefaultQuery("max_results", "20"))
	minRating, _ := strconv.ParseFloat(c.DefaultQuery("min_rating", "0"), 64)

	competitors, err := ctrl.placesService.NearbySearch(c.Request.Context(), lat, lng, radiusM, maxResults, minRating)
	if err != nil {
		if errors.Is(err, service.ErrMissingMapsKey) {
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UpstreamMissingMapsKey, "Missing GOOGLE_MAPS_API_KEY")
			return
		}
		var upstream *service.UpstreamStatusError
		if errors.As(err, &upstream) {
			// Pass the provider's status and body through unchanged.
			apperrors.RespondWithError(c, upstream.StatusCode, apperrors.UpstreamMapsError, upstream.Body)
			return
		}
		apperrors.ParseAndRespond(c, err, "nearby")
		return
	}

	logger.Info("Competitor list replaced", map[string]interface{}{
		"count": len(competitors),
	})

	c.JSON(http.StatusOK, gin.H{"competitors": competitors})
}

// Report combines the stored POS dataset and competitor list into the
// benchmark report. Both prerequisites must have run.
// GET /benchmark/report
func (ctrl *BenchmarkController) Report(c *gin.Context) {
	report, err := ctrl.reportService.BuildReport()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPOSData):
			apperrors.PreconditionFailed(c, apperrors.PreconditionPosRequired, "No POS data loaded yet. Upload a file first.")
		case errors.Is(err, service.ErrNoCompetitorData):
			apperrors.PreconditionFailed(c, apperrors.PreconditionCompetitorsRequired, "No competitor data yet. Run a nearby search first.")
		default:
			apperrors.ParseAndRespond(c, err, "report")
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
