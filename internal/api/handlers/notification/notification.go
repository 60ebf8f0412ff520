package notification

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"recipe-finder/internal/api/handlers"
	notificationService "recipe-finder/internal/core/notification"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

// Store 使用者通知
type Store interface {
	Create(ctx context.Context, userID, message, link string) string
	List(ctx context.Context, userID string, limit int) ([]notificationService.Notification, error)
	MarkRead(ctx context.Context, userID, id string) bool
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// CreateRequest 建立通知
type CreateRequest struct {
	Message string `json:"message" binding:"required"`
	Link    string `json:"link"`
}

// Handler 通知處理程序
type Handler struct {
	store Store
	debug bool
}

// NewHandler 創建通知處理程序
func NewHandler(store Store, debug bool) *Handler {
	return &Handler{store: store, debug: debug}
}

// HandleList GET /users/:uid/notifications?limit=
func (h *Handler) HandleList(c *gin.Context) {
	uid := c.Param("uid")
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handlers.RespondError(c, common.NewValidationError("limit must be a positive integer"), h.debug)
			return
		}
		limit = n
	}

	items, err := h.store.List(c.Request.Context(), uid, limit)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	unread, err := h.store.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

// HandleCreate POST /users/:uid/notifications
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		handlers.RespondError(c, common.NewValidationError("message is required"), h.debug)
		return
	}

	id := h.store.Create(c.Request.Context(), c.Param("uid"), req.Message, req.Link)
	if id == "" {
		handlers.RespondError(c, common.ErrInternalError, h.debug)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// HandleMarkRead POST /users/:uid/notifications/:id/read
func (h *Handler) HandleMarkRead(c *gin.Context) {
	if !h.store.MarkRead(c.Request.Context(), c.Param("uid"), c.Param("id")) {
		handlers.RespondError(c, common.ErrNotFound, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
