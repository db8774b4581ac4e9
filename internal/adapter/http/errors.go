package http

import (
	"errors"
	"net/http"

	contractDomain "credconecta-backend/internal/domain/contract"
	loanDomain "credconecta-backend/internal/domain/loan"
	notificationDomain "credconecta-backend/internal/domain/notification"
	userDomain "credconecta-backend/internal/domain/user"
	"credconecta-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain errors to HTTP codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, contractDomain.ErrNotFound),
		errors.Is(err, contractDomain.ErrTemplateNotFound),
		errors.Is(err, notificationDomain.ErrNotFound),
		errors.Is(err, userDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loanDomain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, contractDomain.ErrAlreadyExists),
		errors.Is(err, contractDomain.ErrInvalidTransition),
		errors.Is(err, userDomain.ErrCPFTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUserBlocked):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Internal details stay in the log.
func respondError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate decodes the body into req. It writes the 400/422 response itself
// and returns false when the handler should stop.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
