package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/video-summarizer/internal/domain/account"
)

// setToken makes the token visible to both the handler and outbound clients
// that re-read it from the request context.
func setToken(c *gin.Context, token string) {
	c.Request = c.Request.WithContext(account.WithToken(c.Request.Context(), token))
}

func getToken(c *gin.Context) string {
	return account.TokenFromContext(c.Request.Context())
}
