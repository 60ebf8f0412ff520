package ai

import (
	"context"
	"net/http"
	"strings"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Suggester 搜尋建議
type Suggester interface {
	Suggest(ctx context.Context, partial string) string
}

// Expert 食譜問答
type Expert interface {
	Ask(ctx context.Context, r recipe.Recipe, question string) (string, error)
}

// ImageGenerator 菜色圖片生成
type ImageGenerator interface {
	Generate(ctx context.Context, dishName string) string
}

// ChatRequest 食譜問答請求
type ChatRequest struct {
	Recipe   recipe.Recipe `json:"recipe"`
	Question string        `json:"question" binding:"required"`
}

// ImageRequest 圖片生成請求
type ImageRequest struct {
	DishName string `json:"dishName" binding:"required"`
}

// Handler AI 相關處理程序，未設定的能力回傳 503
type Handler struct {
	suggester Suggester
	expert    Expert
	images    ImageGenerator
	debug     bool
}

// NewHandler 創建 AI 處理程序
func NewHandler(suggester Suggester, expert Expert, images ImageGenerator, debug bool) *Handler {
	return &Handler{suggester: suggester, expert: expert, images: images, debug: debug}
}

// HandleSuggestion GET /suggestions?q=，沒有建議時回傳空字串
func (h *Handler) HandleSuggestion(c *gin.Context) {
	suggestion := ""
	if h.suggester != nil {
		suggestion = h.suggester.Suggest(c.Request.Context(), c.Query("q"))
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// HandleChat POST /ai/chat
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.NewValidationError("Invalid request format"), h.debug)
		return
	}
	if h.expert == nil {
		handlers.RespondError(c, common.ErrServiceUnavailable, h.debug)
		return
	}

	answer, err := h.expert.Ask(c.Request.Context(), req.Recipe, req.Question)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// HandleImage POST /ai/image，失敗時 imageUrl 為 null
func (h *Handler) HandleImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.DishName) == "" {
		handlers.RespondError(c, common.NewValidationError("dishName is required"), h.debug)
		return
	}

	var imageURL *string
	if h.images != nil {
		if url := h.images.Generate(c.Request.Context(), req.DishName); url != "" {
			imageURL = &url
		}
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
