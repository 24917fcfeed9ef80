package middleware

import (
	"net/http"
	"slices"

	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnly 管理员鉴权，需放在 AuthMiddleware 之后
// adminIDs 为空时所有人都无权访问
func AdminOnly(adminIDs []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			_ = c.Error(utils.UnauthorizedError("Authentication token missing"))
			c.Abort()
			return
		}

		if !slices.Contains(adminIDs, userID) {
			_ = c.Error(utils.NewHTTPError(http.StatusForbidden, "Admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
