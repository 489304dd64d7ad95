package health

import (
	"net/http"
	"runtime"
	"time"

	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LiveMessage body of GET /test
const LiveMessage = "SecureRecipe Backend is LIVE! 🍳"

// Backend what health reports about the generation backend
type Backend interface {
	Available() bool
	Model() string
}

// HealthResponse health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	AI        *AIStatus              `json:"ai"`
}

// AIStatus generation backend state; recipes are served from the fallback catalog when unavailable
type AIStatus struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
}

// Handler health endpoints
type Handler struct {
	cfg     *config.Config
	backend Backend
	started time.Time
}

// NewHandler creates a health handler
func NewHandler(cfg *config.Config, backend Backend) *Handler {
	return &Handler{
		cfg:     cfg,
		backend: backend,
		started: time.Now(),
	}
}

func (h *Handler) aiStatus() *AIStatus {
	status := &AIStatus{Provider: h.cfg.AI.Provider}
	if h.backend != nil && h.backend.Available() {
		status.Available = true
		status.Model = h.backend.Model()
	}
	return status
}

// HealthCheck GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"uptime":     time.Since(h.started).Round(time.Second).String(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		AI: h.aiStatus(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck GET /ready. The service can always answer recipe requests,
// so it is ready even without a generation backend.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"ai":     h.aiStatus(),
	})
}

// LivenessCheck GET /live
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Test GET /test
func (h *Handler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": LiveMessage,
	})
}
