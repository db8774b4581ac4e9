package http

import (
	"net/http"
	"time"

	"credconecta-backend/internal/adapter/middleware"
	"credconecta-backend/internal/infrastructure/cache"
	"credconecta-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handler struct{ rdb *redis.Client }

// NewHandler: rdb may be nil when the service runs without redis.
func NewHandler(rdb *redis.Client) *Handler { return &Handler{rdb: rdb} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"redis":  cache.Status(c.Request().Context(), h.rdb),
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// caller returns the authenticated principal set by middleware.Auth.
func caller(c echo.Context) (auth.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return p, nil
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) { return time.Parse(dateLayout, s) }
