package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/jsamuelsen/quoteboard/internal/app/context"
)

// RequestScope installs a RequestContext so services can memoize lookups,
// such as the caller's user row, for the lifetime of one request.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		rc := appctx.New(ctx)
		c.Request = c.Request.WithContext(appctx.WithContext(ctx, rc))

		c.Next()
	}
}

// Subject returns the authenticated subject, or "" for anonymous callers.
func Subject(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}
