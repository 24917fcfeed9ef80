package handler

import (
	"net/http"

	"social_graph/middleware"
	"social_graph/model"
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc      *service.AuthService
	cookieSecure bool
}

func NewAuthHandler(authSvc *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieSecure: cookieSecure}
}

// Login 登录，令牌写入 Authorization cookie 并在响应中返回
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, tokenData, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	setAuthCookie(c, tokenData.Token, int(tokenData.ExpiresIn), h.cookieSecure)
	c.JSON(http.StatusOK, utils.Response{
		Status:  http.StatusOK,
		Message: "login successful",
		Data:    user,
		Token:   tokenData,
	})
}

// Refresh 用当前令牌换取新令牌
// GET /refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenData, err := h.authSvc.RefreshToken(c.Request.Context(), middleware.ExtractToken(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	setAuthCookie(c, tokenData.Token, int(tokenData.ExpiresIn), h.cookieSecure)
	utils.SuccessWithMessage(c, "refresh", tokenData.Token)
}

// Logout 吊销当前令牌并清除 cookie
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, _ := middleware.GetClaims(c)
	if err := h.authSvc.Revoke(c.Request.Context(), claims); err != nil {
		_ = c.Error(err)
		return
	}

	clearAuthCookie(c, h.cookieSecure)
	utils.SuccessWithMessage(c, "logout successful", nil)
}
