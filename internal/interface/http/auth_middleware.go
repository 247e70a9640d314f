package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// tokenMiddleware copies the bearer token onto the request context. Missing
// or malformed headers are not rejected here; the pipeline decides what an
// anonymous request may do.
func tokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" {
			setToken(c, token)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
