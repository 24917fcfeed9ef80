package middleware

import (
	"log/slog"

	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware 统一错误处理中间件
// 捕获 panic 和 c.Errors：HTTPError 按其状态码输出，其他错误一律 500
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("path", c.Request.URL.Path),
				)

				if !c.Writer.Written() {
					utils.InternalServerError(c, "internal server error")
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if httpErr, ok := utils.AsHTTPError(err); ok {
			utils.ErrorResponse(c, httpErr.Status, httpErr.Message)
			return
		}

		slog.ErrorContext(c.Request.Context(), "request error",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		utils.InternalServerError(c, "internal server error")
	}
}
