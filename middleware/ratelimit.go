package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"social_graph/metrics"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit 固定窗口计数，返回是否放行
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit 按客户端 IP 限流；Redis 未启用或出错时放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		allowed, err := CheckRateLimit(c.Request.Context(), rdb, resource, c.ClientIP(), limit, window)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limit check failed",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejections.WithLabelValues(resource).Inc()
			utils.TooManyRequests(c, "Too many requests, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
