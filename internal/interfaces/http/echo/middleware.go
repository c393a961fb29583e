package echo

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"

	callerKey = "caller"
)

type caller struct {
	ID   string
	Role domain.Role
}

func callerFrom(c echo.Context) caller {
	v, _ := c.Get(callerKey).(caller)
	return v
}

// Identity trusts the user headers set by the auth gateway. A missing role
// means salesperson.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderUserID)
			if _, err := uuid.Parse(id); err != nil {
				return respondError(c, http.StatusUnauthorized, "unauthenticated", "X-User-Id must be a valid UUID")
			}

			role := domain.Role(c.Request().Header.Get(HeaderUserRole))
			if role == "" {
				role = domain.RoleSalesperson
			}
			if !role.Valid() {
				return respondError(c, http.StatusForbidden, "invalid_role", "X-User-Role must be admin or salesperson")
			}

			c.Set(callerKey, caller{ID: id, Role: role})
			return next(c)
		}
	}
}

func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			logger.Info().
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("path", routePath(c)).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}

type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

func RequestMetrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			observer.ObserveRequest(c.Request().Method, routePath(c), c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// RateLimit caps requests per caller, falling back to the client IP before
// identity is known.
func RateLimit(l *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := callerFrom(c).ID
			if key == "" {
				key = c.RealIP()
			}

			lctx, err := l.Get(c.Request().Context(), key)
			if err != nil {
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				return respondError(c, http.StatusTooManyRequests, "rate_limited", "too many uploads, try again later")
			}
			return next(c)
		}
	}
}

func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}
