package http

import (
	"net/http"

	userDomain "credconecta-backend/internal/domain/user"
	"credconecta-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Type     string `json:"type"     validate:"required,oneof=admin user"`
	CPF      string `json:"cpf"      validate:"required_if=Type user"`
	Password string `json:"password" validate:"required"`
}

type createUserReq struct {
	FullName string `json:"full_name" validate:"required"`
	CPF      string `json:"cpf"       validate:"required,cpf"`
	Password string `json:"password"  validate:"required,min=4"`
}

type updateUserReq struct {
	FullName             *string `json:"full_name"              validate:"omitempty,min=1"`
	CPF                  *string `json:"cpf"                    validate:"omitempty,cpf"`
	Password             *string `json:"password"               validate:"omitempty,min=4"`
	IsBlocked            *bool   `json:"is_blocked"`
	MonthlyPaymentStatus *string `json:"monthly_payment_status" validate:"omitempty,oneof=paid pending overdue"`
	LastPayment          *string `json:"last_payment"           validate:"omitempty,datetime=2006-01-02"`
}

func (r updateUserReq) patch() (userDomain.Patch, error) {
	p := userDomain.Patch{
		FullName:  r.FullName,
		CPF:       r.CPF,
		Password:  r.Password,
		IsBlocked: r.IsBlocked,
	}
	if r.MonthlyPaymentStatus != nil {
		s := userDomain.PaymentStatus(*r.MonthlyPaymentStatus)
		p.MonthlyPaymentStatus = &s
	}
	if r.LastPayment != nil {
		d, err := parseDate(*r.LastPayment)
		if err != nil {
			return p, err
		}
		p.LastPayment = &d
	}
	return p, nil
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.Login(c.Request().Context(), auth.LoginInput{
		Type:     auth.PrincipalType(req.Type),
		CPF:      req.CPF,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Me echoes the principal carried by the token.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ---- users (admin) ----

func (h *AuthHandler) ListUsers(c echo.Context) error {
	list, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	u, err := h.uc.AddUser(c.Request().Context(), auth.CreateUserInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) UpdateUser(c echo.Context) error {
	var req updateUserReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid last_payment"})
	}
	u, err := h.uc.UpdateUser(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ToggleBlock(c echo.Context) error {
	u, err := h.uc.ToggleBlock(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	if err := h.uc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
