package handlers

import (
	"context"
	"net/http"

	aiservice "secure-recipe/internal/core/ai/service"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TestPrompt prompt sent by GET /test-ai
const TestPrompt = "Hello, are you working? Respond with 'Yes, I am working!'"

// Backend generation backend probed by the diagnostic endpoint
type Backend interface {
	Available() bool
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIHandler generation backend diagnostics
type AIHandler struct {
	backend Backend
}

// NewAIHandler creates an AI handler
func NewAIHandler(backend Backend) *AIHandler {
	return &AIHandler{
		backend: backend,
	}
}

// HandleTestAI GET /test-ai. Always 200; the body says whether the backend answered.
func (h *AIHandler) HandleTestAI(c *gin.Context) {
	requestID := common.RequestID(c)

	if h.backend == nil || !h.backend.Available() {
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": common.ErrServiceUnavailable.Message,
		})
		return
	}

	ctx := aiservice.WithRequestID(c.Request.Context(), requestID)
	response, err := h.backend.Generate(ctx, TestPrompt)
	if err != nil {
		common.LogWarn("AI test call failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": "AI is not working",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "AI is working!",
		"response": response,
		"model":    h.backend.Model(),
	})
}
