package http

import (
	"net/http"

	domain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	FullName          string          `json:"full_name"          validate:"required"`
	CPF               string          `json:"cpf"                validate:"required,cpf"`
	Phone             string          `json:"phone"              validate:"required"`
	LoanDate          string          `json:"loan_date"          validate:"required,datetime=2006-01-02"`
	LoanAmount        decimal.Decimal `json:"loan_amount"        validate:"gte=0,dec2"`
	TotalInstallments int             `json:"total_installments" validate:"gte=0"`
	PaidInstallments  int             `json:"paid_installments"  validate:"gte=0,ltefield=TotalInstallments"`
	DailyPenalty      decimal.Decimal `json:"daily_penalty"      validate:"gte=0,dec2"`
	Photo             *string         `json:"photo"`
}

// updateLoanReq: absent fields are left untouched.
type updateLoanReq struct {
	FullName          *string          `json:"full_name"          validate:"omitempty,min=1"`
	CPF               *string          `json:"cpf"                validate:"omitempty,cpf"`
	Phone             *string          `json:"phone"`
	LoanDate          *string          `json:"loan_date"          validate:"omitempty,datetime=2006-01-02"`
	LoanAmount        *decimal.Decimal `json:"loan_amount"        validate:"omitempty,gte=0,dec2"`
	TotalInstallments *int             `json:"total_installments" validate:"omitempty,gte=0"`
	PaidInstallments  *int             `json:"paid_installments"  validate:"omitempty,gte=0"`
	DailyPenalty      *decimal.Decimal `json:"daily_penalty"      validate:"omitempty,gte=0,dec2"`
	Photo             *string          `json:"photo"`
	IsSettled         *bool            `json:"is_settled"`
}

func (r updateLoanReq) patch() (domain.Patch, error) {
	p := domain.Patch{
		FullName:          r.FullName,
		CPF:               r.CPF,
		Phone:             r.Phone,
		LoanAmount:        r.LoanAmount,
		TotalInstallments: r.TotalInstallments,
		PaidInstallments:  r.PaidInstallments,
		DailyPenalty:      r.DailyPenalty,
		Photo:             r.Photo,
		IsSettled:         r.IsSettled,
	}
	if r.LoanDate != nil {
		d, err := parseDate(*r.LoanDate)
		if err != nil {
			return p, err
		}
		p.LoanDate = &d
	}
	return p, nil
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	loanDate, err := parseDate(req.LoanDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_date"})
	}
	dto, err := h.uc.Add(c.Request().Context(), loan.CreateLoanInput{
		FullName:          req.FullName,
		CPF:               req.CPF,
		Phone:             req.Phone,
		LoanDate:          loanDate,
		LoanAmount:        req.LoanAmount,
		TotalInstallments: req.TotalInstallments,
		PaidInstallments:  req.PaidInstallments,
		DailyPenalty:      req.DailyPenalty,
		Photo:             req.Photo,
	}, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	list, err := h.uc.List(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req updateLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_date"})
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("id"), patch, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SettleLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Settle(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) OverdueLoans(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	list, err := h.uc.Overdue(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) Penalty(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	dto, err := h.uc.Penalty(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Summary(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	r, err := h.uc.Report(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *LoanHandler) FullReport(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	r, err := h.uc.FullReport(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *LoanHandler) OverdueReport(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	rows, err := h.uc.OverdueReport(c.Request().Context(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
