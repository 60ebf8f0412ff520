package recipe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/core/userrecipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Searcher 聚合搜尋
type Searcher interface {
	Search(ctx context.Context, query string, mode recipe.Mode) (search.Result, error)
	Trending(ctx context.Context) ([]recipe.Recipe, error)
	Details(ctx context.Context, id string, source recipe.Source) (*recipe.Recipe, error)
}

// Submitter 使用者投稿
type Submitter interface {
	Submit(ctx context.Context, sub userrecipe.Submission) userrecipe.Result
}

// SearchResponse 搜尋回應，結果為空時附上提示訊息
type SearchResponse struct {
	Recipes []recipe.Listing `json:"recipes"`
	Source  recipe.Source    `json:"source"`
	Message string           `json:"message,omitempty"`
}

const noResultsMessage = "No recipes found. Try a different search."

// Handler 食譜處理程序
type Handler struct {
	searcher  Searcher
	submitter Submitter
	debug     bool
}

// NewHandler 創建食譜處理程序
func NewHandler(searcher Searcher, submitter Submitter, debug bool) *Handler {
	return &Handler{searcher: searcher, submitter: submitter, debug: debug}
}

// HandleSearch GET /recipes/search?q=&mode=dish|ingredient
func (h *Handler) HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handlers.RespondError(c, common.NewValidationError("query parameter q is required"), h.debug)
		return
	}
	mode, ok := recipe.ParseMode(c.Query("mode"))
	if !ok {
		handlers.RespondError(c, common.NewValidationError("mode must be dish or ingredient"), h.debug)
		return
	}

	common.LogDebug("開始處理搜尋請求",
		zap.String("query", query),
		zap.String("mode", string(mode)),
		zap.String("request_id", requestid.Get(c)),
	)

	result, err := h.searcher.Search(c.Request.Context(), query, mode)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	resp := SearchResponse{Recipes: result.Recipes, Source: result.Source}
	if len(resp.Recipes) == 0 {
		resp.Recipes = []recipe.Listing{}
		resp.Message = noResultsMessage
	}
	c.JSON(http.StatusOK, resp)
}

// HandleTrending GET /recipes/trending
func (h *Handler) HandleTrending(c *gin.Context) {
	recipes, err := h.searcher.Trending(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleDetails GET /recipes/:id?source=PublicAPI
// 找不到或非公開 API 食譜時 recipe 為 null
func (h *Handler) HandleDetails(c *gin.Context) {
	source := recipe.SourcePublicAPI
	if raw := c.Query("source"); raw != "" {
		parsed, ok := recipe.ParseSource(raw)
		if !ok {
			handlers.RespondError(c, common.NewValidationError("unknown recipe source"), h.debug)
			return
		}
		source = parsed
	}

	r, err := h.searcher.Details(c.Request.Context(), c.Param("id"), source)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": r})
}

// HandleSubmit POST /recipes (multipart/form-data)
func (h *Handler) HandleSubmit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	ingredients, err := parseIngredients(c.PostForm("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, userrecipe.Result{Message: err.Error()})
		return
	}

	img, err := readImage(c, "image")
	if err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	res := h.submitter.Submit(c.Request.Context(), userrecipe.Submission{
		AuthorID:     c.PostForm("authorId"),
		AuthorName:   c.PostForm("authorName"),
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		Instructions: c.PostForm("instructions"),
		Ingredients:  ingredients,
		Category:     c.PostForm("category"),
		Area:         c.PostForm("area"),
		Tags:         splitTags(c.PostForm("tags")),
		Image:        img,
	})

	c.JSON(submitStatus(res), res)
}

// submitStatus 輸入問題 400，儲存失敗 502，寫入失敗 500
func submitStatus(res userrecipe.Result) int {
	if res.Success {
		return http.StatusCreated
	}
	switch res.Failure {
	case userrecipe.FailureUpload:
		return http.StatusBadGateway
	case userrecipe.FailureStore:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
