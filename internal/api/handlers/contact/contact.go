package contact

import (
	"context"
	"net/http"

	contactService "recipe-finder/internal/core/contact"

	"github.com/gin-gonic/gin"
)

// Submitter 聯絡表單
type Submitter interface {
	Submit(ctx context.Context, email, message string) contactService.Result
}

// Request 聯絡表單內容
type Request struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Handle POST /contact
func Handle(svc Submitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, contactService.Result{Message: "Invalid request format"})
			return
		}

		res := svc.Submit(c.Request.Context(), req.Email, req.Message)
		status := http.StatusOK
		if !res.Success {
			status = http.StatusBadRequest
		}
		c.JSON(status, res)
	}
}
