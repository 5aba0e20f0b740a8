package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/metrics"
)

const rateWindow = time.Minute

type ctxKey string

const sessionErrKey ctxKey = "sessionErr"

// loadSession resolves the session cookie, if any, and puts the user into
// the request context. Requests without a valid session pass through
// anonymously.
func (h *api) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.SessionCookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		user, token, err := h.Users.ResolveSession(ctx, c.Value)
		if err != nil {
			h.log.Error(ctx, "session lookup failed", "request_id", middleware.GetReqID(ctx), "err", err)
			ctx = context.WithValue(ctx, sessionErrKey, err)
		} else if user != nil {
			ctx = auth.WithUser(ctx, user, token)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireUser rejects requests without an authenticated user.
func (h *api) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if err, ok := r.Context().Value(sessionErrKey).(error); ok {
			h.fail(w, r, err, messages{})
			return
		}
		h.fail(w, r, common.ErrorUnauthorized, messages{})
	})
}

// rateLimit allows Config.RateLimitPerMinute requests per client address
// and minute on the wrapped routes. Counter failures let requests through.
func (h *api) rateLimit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limit := h.Config.RateLimitPerMinute
		if h.Limiter == nil || limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("ratelimit:%s:%s", scope, clientIP(r))

			count, err := h.Limiter.IncrWithExpire(ctx, key, rateWindow)
			if err != nil {
				h.log.Warn(ctx, "rate limiter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				metrics.RateLimited.WithLabelValues(scope).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests"})
				h.logDone(r, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// instrument records request counts and latencies labelled by route pattern.
func (h *api) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
