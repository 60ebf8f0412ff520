package middleware

import (
	"strings"

	"recipe-finder/internal/core/userrecipe"

	"github.com/gin-gonic/gin"
)

// Session 將 Authorization: Bearer <token> 放入 request context，
// 投稿查詢會改用使用者自己的 session
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			ctx := userrecipe.WithSession(c.Request.Context(), userrecipe.Session{Token: token})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
