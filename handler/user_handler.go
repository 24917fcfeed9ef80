package handler

import (
	"log/slog"

	"social_graph/middleware"
	"social_graph/model"
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc      *service.UserService
	authSvc      *service.AuthService
	cookieSecure bool
}

func NewUserHandler(userSvc *service.UserService, authSvc *service.AuthService, cookieSecure bool) *UserHandler {
	return &UserHandler{userSvc: userSvc, authSvc: authSvc, cookieSecure: cookieSecure}
}

// SignUp 注册
// POST /users/signup
func (h *UserHandler) SignUp(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Created(c, "user created successfully", user)
}

// GetUsers 用户列表
// GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userSvc.GetUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "data retrieved successfully", users)
}

// GetUserByID 用户详情
// GET /users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userSvc.GetUserDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "data retrieved successfully", user)
}

// UpdateUser 更新当前用户
// PUT /users
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.userSvc.UpdateUserDetails(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessWithMessage(c, "user data updated successfully", user)
}

// DeleteUser 注销当前用户（同时吊销令牌）
// DELETE /users
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.userSvc.DeleteUserDetails(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	claims, _ := middleware.GetClaims(c)
	if err := h.authSvc.Revoke(c.Request.Context(), claims); err != nil {
		// 用户已删除，令牌在认证时会因找不到用户而失效
		slog.WarnContext(c.Request.Context(), "failed to revoke token", slog.String("error", err.Error()))
	}
	clearAuthCookie(c, h.cookieSecure)

	utils.SuccessWithMessage(c, "user account deleted successfully", user)
}
