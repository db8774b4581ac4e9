package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"credconecta-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type fakeParser struct{}

func (fakeParser) ParseToken(token string) (*auth.Principal, error) {
	switch token {
	case "admin-token":
		return &auth.Principal{Type: auth.TypeAdmin, ID: "admin"}, nil
	case "user-token":
		return &auth.Principal{Type: auth.TypeUser, ID: "u1"}, nil
	}
	return nil, errors.New("bad token")
}

func newAuthEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("", Auth(fakeParser{}))
	g.GET("/me", func(c echo.Context) error {
		p, _ := PrincipalFrom(c)
		return c.String(http.StatusOK, p.ID)
	})
	g.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, AdminOnly())
	return e
}

func TestAuth(t *testing.T) {
	e := newAuthEcho()
	tests := []struct {
		name   string
		path   string
		header string
		want   int
		body   string
	}{
		{"no header", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic user-token", http.StatusUnauthorized, ""},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, ""},
		{"user ok", "/me", "Bearer user-token", http.StatusOK, "u1"},
		{"lowercase scheme", "/me", "bearer admin-token", http.StatusOK, "admin"},
		{"admin route as user", "/admin", "Bearer user-token", http.StatusForbidden, ""},
		{"admin route as admin", "/admin", "Bearer admin-token", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("want %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestAdminOnly_WithoutAuth(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, AdminOnly())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}
