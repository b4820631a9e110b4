package controller

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const (
	userIdHeader = "X-User-Id"
	userIdKey    = "userId"
)

// authenticate trusts the user id forwarded by the identity provider in front
// of the API.
func authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userId, err := uuid.Parse(c.Request().Header.Get(userIdHeader))
		if err != nil || userId == uuid.Nil {
			reason := fmt.Sprintf("'%s' header with a user id is required", userIdHeader)
			return c.JSON(http.StatusUnauthorized, errorResponse{Reason: reason})
		}

		c.Set(userIdKey, userId)
		return next(c)
	}
}

func currentUser(c echo.Context) uuid.UUID {
	userId, _ := c.Get(userIdKey).(uuid.UUID)
	return userId
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			logger.Info("request",
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency", time.Since(start),
				"user_id", req.Header.Get(userIdHeader),
			)

			return nil
		}
	}
}

func recoverer(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("handler panicked", "path", c.Path(), "panic", r)
					err = c.JSON(http.StatusInternalServerError, errorResponse{Reason: "Internal server error"})
				}
			}()

			return next(c)
		}
	}
}
