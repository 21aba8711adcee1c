package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/linkup-social/linkup-backend/internal/common"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	Message           string
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyPrefix:         "api:ratelimit:",
		Message:           "Too many requests, please try again later",
	}
}

// rateLimitScript is an atomic Lua script for sliding window rate limiting
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, math.ceil(window / 1000) + 1)
    return {1, limit - count - 1}
else
    return {0, 0}
end
`)

// RateLimit returns a gin middleware enforcing a sliding-window limit per
// client. Keyed by authenticated user when available, client IP otherwise.
// When redisClient is nil the middleware is a pass-through.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	window := int64(time.Minute / time.Millisecond)

	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := cfg.KeyPrefix
		if userID := GetUserID(c); userID != 0 {
			key += fmt.Sprintf("u:%d", userID)
		} else {
			key += "ip:" + c.ClientIP()
		}

		now := time.Now().UnixMilli()
		result, err := rateLimitScript.Run(c.Request.Context(), redisClient,
			[]string{key}, cfg.RequestsPerMinute, window, now).Int64Slice()
		if err != nil {
			// Redis trouble must not take the API down.
			c.Next()
			return
		}

		if len(result) == 2 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(result[1], 10))
		}

		if len(result) == 2 && result[0] == 0 {
			common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
