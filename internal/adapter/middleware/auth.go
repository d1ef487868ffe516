package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"coinlend-backend/internal/security"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth requires a bearer token and exposes its subject and role on the
// echo context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "empty token"})
			}

			claims, err := security.ParseToken(secret, token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, security.ErrExpiredToken) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}

			c.Set(CtxUserID, claims.UserID())
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole must run after JWTAuth.
func RequireRole(role security.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get(CtxRole).(security.Role); r != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller, or "" outside JWTAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}
