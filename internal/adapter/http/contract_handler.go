package http

import (
	"net/http"

	domain "credconecta-backend/internal/domain/contract"
	"credconecta-backend/internal/usecase/contract"

	"github.com/labstack/echo/v4"
)

type ContractHandler struct{ uc *contract.Usecase }

func NewContractHandler(uc *contract.Usecase) *ContractHandler { return &ContractHandler{uc: uc} }

type generateContractReq struct {
	LoanID     string `json:"loan_id"     validate:"required"`
	TemplateID string `json:"template_id"`
}

type signContractReq struct {
	ClientSignature  *string `json:"client_signature"`
	LenderSignature  *string `json:"lender_signature"`
	WitnessSignature *string `json:"witness_signature"`
}

type shareContractReq struct {
	Phone string `json:"phone"`
}

type templateReq struct {
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content"     validate:"required"`
	Variables   []string `json:"variables"`
	IsActive    *bool    `json:"is_active"`
}

type updateTemplateReq struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"     validate:"omitempty,min=1"`
	Variables   []string `json:"variables"`
	IsActive    *bool    `json:"is_active"`
}

func (h *ContractHandler) Generate(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req generateContractReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.GenerateFromLoan(c.Request().Context(), req.LoanID, req.TemplateID, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ContractHandler) List(c echo.Context) error {
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

func (h *ContractHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetByLoan serves GET /loans/:id/contract.
func (h *ContractHandler) GetByLoan(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByLoan(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), c.Param("id"), p.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContractHandler) Sign(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req signContractReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.Sign(c.Request().Context(), c.Param("id"), domain.Signatures{
		Client:  req.ClientSignature,
		Lender:  req.LenderSignature,
		Witness: req.WitnessSignature,
	}, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContractHandler) GeneratePDF(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GeneratePDF(c.Request().Context(), c.Param("id"), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Share accepts an empty body; the client's phone is used then.
func (h *ContractHandler) Share(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req shareContractReq
	if c.Request().ContentLength != 0 {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}
	out, err := h.uc.ShareWhatsApp(c.Request().Context(), c.Param("id"), req.Phone, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ---- templates ----

func (h *ContractHandler) ListTemplates(c echo.Context) error {
	list, err := h.uc.ListTemplates(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ContractHandler) GetTemplate(c echo.Context) error {
	t, err := h.uc.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ContractHandler) CreateTemplate(c echo.Context) error {
	var req templateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	active := req.IsActive == nil || *req.IsActive
	t, err := h.uc.CreateTemplate(c.Request().Context(), contract.TemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Variables:   req.Variables,
		IsActive:    active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *ContractHandler) UpdateTemplate(c echo.Context) error {
	var req updateTemplateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	t, err := h.uc.UpdateTemplate(c.Request().Context(), c.Param("id"), domain.TemplatePatch{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Variables:   req.Variables,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *ContractHandler) DeleteTemplate(c echo.Context) error {
	if err := h.uc.DeleteTemplate(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
