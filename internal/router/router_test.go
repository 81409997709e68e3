package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brewbot/brewbot-backend/config"
	"github.com/brewbot/brewbot-backend/internal/app/controller"
	"github.com/brewbot/brewbot-backend/internal/app/service"
	"github.com/brewbot/brewbot-backend/internal/app/store"
)

func newTestRouter() *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"*"}

	posStore := store.NewPOSStore()
	compStore := store.NewCompetitorStore()

	r := NewRouter(
		controller.NewIngestController(service.NewIngestService(posStore)),
		controller.NewBenchmarkController(
			service.NewPlacesService("", time.Second, compStore),
			service.NewReportService(posStore, compStore),
		),
		controller.NewPlacesController(service.NewFindPlacesService("", time.Second)),
		controller.NewChatController(service.NewChatService("", "gemini-2.5-flash", time.Second)),
		cfg,
	)
	return r.Setup()
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	engine := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/ai/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
