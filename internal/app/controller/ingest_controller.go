package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brewbot/brewbot-backend/internal/app/service"
	apperrors "github.com/brewbot/brewbot-backend/internal/errors"
	"github.com/brewbot/brewbot-backend/pkg/logger"
)

type IngestController struct {
	ingestService *service.IngestService
}

func NewIngestController(ingestService *service.IngestService) *IngestController {
	return &IngestController{
		ingestService: ingestService,
	}
}

// UploadPOS accepts a POS export and replaces the stored dataset.
// POST /ingest/pos
func (ctrl *IngestController) UploadPOS(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFile, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFile, "Could not read the uploaded file")
		return
	}

	result, err := ctrl.ingestService.IngestPOS(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFile, "Invalid file: "+err.Error())
			return
		}
		apperrors.ParseAndRespond(c, err, "ingest")
		return
	}

	logger.Info("POS dataset replaced", map[string]interface{}{
		"filename": result.Filename,
		"rows":     result.Rows,
		"cols":     len(result.Cols),
	})

	c.JSON(http.StatusOK, result)
}
