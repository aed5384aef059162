package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"etm/shared"
	"etm/shared/cache"
	"etm/shared/constant"
	"etm/shared/metrics"
	"etm/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	headerRetryAfter  = "Retry-After"
)

// RateLimit allows MaxRequests per client address in fixed windows of
// WindowSeconds aligned to the epoch. Requests pass when the cache is unavailable.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limits.Enable || limits.MaxRequests <= 0 || limits.WindowSeconds <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now().Unix()
			window := int64(limits.WindowSeconds)
			key := shared.BuildCacheKey(cacheKeyRateLimit, clientAddr(r), strconv.FormatInt(now/window, 10))

			var seen int

			switch err := a.cache.Get(r.Context(), key, &seen); {
			case errors.Is(err, cache.Nil):
			case err != nil:
				log.Warn().Err(err).Msg("rate limiter cache unavailable")
				next.ServeHTTP(w, r)

				return
			}

			if seen >= limits.MaxRequests {
				metrics.RateLimitedTotal.Inc()
				w.Header().Set(headerRetryAfter, strconv.FormatInt(window-now%window, 10))
				response.WithRequestLimitExceeded(w)

				return
			}

			count := seen + 1
			if err := a.cache.Save(r.Context(), key, count, limits.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to save rate limiter counter")
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(limits.MaxRequests-count))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := strings.TrimSpace(r.Header.Get(constant.RequestHeaderRealIP)); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
