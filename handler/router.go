package handler

import (
	"time"

	"social_graph/middleware"
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	AuthSvc         *service.AuthService
	UserSvc         *service.UserService
	RelSvc          *service.RelationshipService
	SettingsSvc     *service.SettingsService
	Redis           *redis.Client // 可为 nil，此时不限流
	RateLimit       int
	RateLimitWindow time.Duration
	CookieSecure    bool
	AdminUserIDs    []string
}

// SetupRouter 注册全部路由
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Metrics(), middleware.ErrorHandlerMiddleware())

	authHandler := NewAuthHandler(deps.AuthSvc, deps.CookieSecure)
	userHandler := NewUserHandler(deps.UserSvc, deps.AuthSvc, deps.CookieSecure)
	relHandler := NewRelationshipHandler(deps.RelSvc)
	settingsHandler := NewSettingsHandler(deps.SettingsSvc)

	auth := middleware.AuthMiddleware(deps.AuthSvc)
	limit := func(resource string) gin.HandlerFunc {
		return middleware.RateLimit(deps.Redis, deps.RateLimit, deps.RateLimitWindow, resource)
	}

	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 认证
	r.POST("/login", limit("login"), authHandler.Login)
	r.GET("/refresh", authHandler.Refresh)
	r.POST("/logout", auth, authHandler.Logout)

	// 用户
	r.POST("/users/signup", limit("signup"), userHandler.SignUp)
	users := r.Group("/users", auth)
	{
		users.GET("", userHandler.GetUsers)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("", userHandler.UpdateUser)
		users.DELETE("", userHandler.DeleteUser)
	}

	// 关注关系
	rel := r.Group("", auth)
	{
		rel.POST("/follow/:id", relHandler.FollowUser)
		rel.POST("/unfollow/:id", relHandler.UnfollowUser)
		rel.GET("/relationships/:id", relHandler.GetRelationships)
		rel.GET("/relationships/:id/counts", relHandler.GetRelationshipCounts)
		rel.GET("/isFollowing/:id", relHandler.IsFollowing)
	}

	// 功能开关管理（需要认证 + 管理员）
	admin := r.Group("/admin", auth, middleware.AdminOnly(deps.AdminUserIDs))
	{
		admin.GET("/settings", settingsHandler.GetSettings)
		admin.POST("/settings/reload", settingsHandler.ReloadSettings)
		admin.POST("/settings/:key", settingsHandler.UpdateSetting)
	}

	return r
}
