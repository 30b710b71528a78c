package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"peopledesk/backend/pkg/redis"
	"peopledesk/backend/pkg/response"
)

const limiterPrefix = "peopledesk:limiter"

// NewLimiterStore 有 Redis 时使用 Redis 存储，否则使用进程内存储
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	if rdb == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix}), nil
	}
	return sredis.NewStoreWithOptions(rdb.Raw(), limiter.StoreOptions{Prefix: limiterPrefix})
}

// RateLimit 按客户端 IP 限流，速率为 ulule 格式（如 "10-M"）
// 存储出错时降级放行
func RateLimit(store limiter.Store, formatted string, logger *zap.Logger) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	lim := limiter.New(store, rate)
	return mgin.NewMiddleware(lim,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.TooManyRequests(c, 10004, "请求过于频繁，请稍后再试")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Warn("限流存储访问失败", zap.Error(err))
			c.Next()
		}),
	), nil
}
