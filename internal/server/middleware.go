package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/brokerage/internal/ownerctx"
)

// OwnerMiddleware resolves the acting owner from the X-Owner-ID header and
// stores it on the request context. Identity verification itself lives in
// the upstream gateway; this service only scopes data by the resolved ID.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-Owner-ID"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"type":    "unauthorized",
				"message": "missing owner identity",
			}})
			return
		}

		ownerID, err := snowflake.ParseString(raw)
		if err != nil || ownerID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"type":    "unauthorized",
				"message": "invalid owner identity",
			}})
			return
		}

		ctx := ownerctx.WithOwnerID(c.Request.Context(), int64(ownerID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
