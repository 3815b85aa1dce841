package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Messages returned with 429 responses.
const (
	MsgTooManyAuthAttempts = "Too many authentication attempts, please try again later."
	MsgTooManyRequests     = "Too many requests from this IP"
)

// NewMemoryLimiter builds an in-process limiter from a formatted rate such
// as "5-M" (five requests per minute) or "5-15M" (five per fifteen minutes).
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := parseRate(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// parseRate extends the limiter format with a period multiplier.
func parseRate(formatted string) (limiter.Rate, error) {
	limitPart, periodPart, ok := strings.Cut(formatted, "-")
	if !ok {
		return limiter.NewRateFromFormatted(formatted)
	}
	digits := strings.TrimRight(periodPart, "SMHDsmhd")
	if digits == "" || digits == periodPart {
		return limiter.NewRateFromFormatted(formatted)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period %q", periodPart)
	}
	rate, err := limiter.NewRateFromFormatted(limitPart + "-" + periodPart[len(digits):])
	if err != nil {
		return limiter.Rate{}, err
	}
	rate.Formatted = formatted
	rate.Period *= time.Duration(n)
	return rate, nil
}

// RateLimit creates a Gin middleware for rate limiting requests per client IP.
// message is the body returned once the limit is reached.
func RateLimit(limiterInstance *limiter.Limiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromContext(c).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", lctx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": message})
			return
		}

		c.Next()
	}
}
