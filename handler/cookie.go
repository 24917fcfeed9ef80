package handler

import (
	"net/http"

	"social_graph/middleware"

	"github.com/gin-gonic/gin"
)

// setAuthCookie 写入 HttpOnly 令牌 cookie
// 浏览器只接受带 Secure 的 SameSite=None，非 HTTPS 环境退回 Lax
func setAuthCookie(c *gin.Context, token string, maxAge int, secure bool) {
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", secure, true)
}

func clearAuthCookie(c *gin.Context, secure bool) {
	setAuthCookie(c, "", -1, secure)
}
