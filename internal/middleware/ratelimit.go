package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roomly/roomly-backend/pkg/clientip"
)

const (
	// LoginRateLimitWindow is the fixed window for credential endpoints
	LoginRateLimitWindow = 5 * time.Minute
	// LoginRateLimitMaxRequests is the maximum number of attempts per window
	LoginRateLimitMaxRequests = 10
	// LoginRateLimitKeyPrefix is the Redis key prefix for login rate limiting
	LoginRateLimitKeyPrefix = "loginlimit:"
)

// LoginRateLimit limits login/register/reset attempts per client IP using a
// fixed Redis window. If Redis is unavailable the request is allowed (fail
// open).
func LoginRateLimit(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ipAddress := clientip.RealClientIP(r)
			ctx := r.Context()

			rateLimitKey := LoginRateLimitKeyPrefix + ipAddress

			newCount, err := client.Incr(ctx, rateLimitKey).Result()
			if err != nil {
				// If Redis fails, allow the request (fail open)
				next.ServeHTTP(w, r)
				return
			}
			if newCount == 1 {
				client.Expire(ctx, rateLimitKey, LoginRateLimitWindow)
			}

			if newCount > LoginRateLimitMaxRequests {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Too many attempts. Please try again later.","retry_after":%d}`, int(LoginRateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(LoginRateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(LoginRateLimitMaxRequests)-newCount, 10))

			next.ServeHTTP(w, r)
		})
	}
}
