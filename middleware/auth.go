package middleware

import (
	"strings"

	"social_graph/service"

	"github.com/gin-gonic/gin"
)

// AuthCookieName 登录令牌所在的 cookie
const AuthCookieName = "Authorization"

const (
	ctxUserIDKey = "user_id"
	ctxClaimsKey = "claims"
)

// AuthMiddleware HTTP API 认证中间件
// 令牌优先从 Authorization cookie 读取，其次是 Authorization: Bearer 头
func AuthMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := authSvc.Authenticate(c.Request.Context(), ExtractToken(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, user.UserID)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// ExtractToken 从 cookie 或 Bearer 头中取出令牌
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetClaims 从上下文获取令牌声明
func GetClaims(c *gin.Context) (*service.Claims, bool) {
	claims, exists := c.Get(ctxClaimsKey)
	if !exists {
		return nil, false
	}
	cl, ok := claims.(*service.Claims)
	return cl, ok
}
