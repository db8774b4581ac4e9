package middleware

import (
	"net/http"
	"strings"

	"credconecta-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

type TokenParser interface {
	ParseToken(token string) (*auth.Principal, error)
}

// Auth requires "Authorization: Bearer <jwt>" and stores the caller on the context.
func Auth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			p, err := parser.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			SetPrincipal(c, *p)
			return next(c)
		}
	}
}

// AdminOnly rejects callers that are not the administrator. Must run after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			if !p.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin only"})
			}
			return next(c)
		}
	}
}

func SetPrincipal(c echo.Context, p auth.Principal) { c.Set(principalKey, p) }

func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}
