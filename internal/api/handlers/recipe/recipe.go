package recipe

import (
	"context"
	"net/http"

	aiservice "secure-recipe/internal/core/ai/service"
	recipeService "secure-recipe/internal/core/recipe"
	"secure-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest body of POST /generate-recipes
type GenerateRequest struct {
	Ingredients *string `json:"ingredients"`
}

// SearchRequest body of POST /search-recipes
type SearchRequest struct {
	Query *string `json:"query"`
}

// Service recipe operations used by the handler
type Service interface {
	GenerateRecipes(ctx context.Context, ingredients string) (*recipeService.Result, error)
	SearchRecipes(ctx context.Context, query string) (*recipeService.Result, error)
}

// Handler recipe endpoints
type Handler struct {
	service Service
}

// NewHandler creates a recipe handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate POST /generate-recipes
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := common.RequestID(c)

	var req GenerateRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.LogWarn("Invalid generate request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.RespondError(c, err)
		return
	}

	ctx := aiservice.WithRequestID(c.Request.Context(), requestID)
	result, err := h.service.GenerateRecipes(ctx, common.SanitizePtr(req.Ingredients))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	h.respond(c, requestID, result)
}

// HandleSearch POST /search-recipes
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := common.RequestID(c)

	var req SearchRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.LogWarn("Invalid search request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.RespondError(c, err)
		return
	}

	ctx := aiservice.WithRequestID(c.Request.Context(), requestID)
	result, err := h.service.SearchRecipes(ctx, common.SanitizePtr(req.Query))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	h.respond(c, requestID, result)
}

func (h *Handler) respond(c *gin.Context, requestID string, result *recipeService.Result) {
	common.LogInfo("Recipes served",
		zap.String("request_id", requestID),
		zap.String("source", string(result.Source)),
		zap.String("reason", string(result.Reason)),
		zap.Int("count", len(result.Recipes)),
	)

	c.Header(common.HeaderRecipeSource, string(result.Source))
	c.JSON(http.StatusOK, common.RecipesResponse{Recipes: result.Recipes})
}
