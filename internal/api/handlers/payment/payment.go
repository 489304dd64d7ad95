package payment

import (
	"context"
	"net/http"

	paymentService "secure-recipe/internal/core/payment"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyRequest body of POST /verify-payment
type VerifyRequest struct {
	Reference *string `json:"reference"`
}

// Verifier checks payment references
type Verifier interface {
	Verify(ctx context.Context, reference string) (*paymentService.Result, error)
}

// Handler payment endpoints
type Handler struct {
	verifier Verifier
}

// NewHandler creates a payment handler
func NewHandler(verifier Verifier) *Handler {
	return &Handler{verifier: verifier}
}

// HandleVerify POST /verify-payment
func (h *Handler) HandleVerify(c *gin.Context) {
	requestID := common.RequestID(c)

	var req VerifyRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	reference := ""
	if req.Reference != nil {
		reference = *req.Reference
	}

	result, err := h.verifier.Verify(c.Request.Context(), reference)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if !result.Succeeded() {
		common.LogWarn("Payment verification failed",
			zap.String("request_id", requestID),
			zap.String("reference", reference),
		)
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
