package contract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "credconecta-backend/internal/domain/contract"
	loanDomain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/domain/uow"
	"credconecta-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SignNotifier is told when a contract reaches signed or completed.
type SignNotifier interface {
	ContractSigned(ctx context.Context, c domain.Contract)
}

type Usecase struct {
	repo      domain.Repository
	templates domain.TemplateRepository
	uow       uow.UnitOfWork
	notify    SignNotifier
	loans     loanDomain.Repository
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewUsecase(repo domain.Repository, templates domain.TemplateRepository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		repo:      repo,
		templates: templates,
		uow:       tx,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithNotifier(n SignNotifier) *Usecase {
	u.notify = n
	return u
}

// WithLoans reads the loan through r before the locked transaction, so a loan
// held only by a mirrored copy reaches the transactional store first.
func (u *Usecase) WithLoans(r loanDomain.Repository) *Usecase {
	u.loans = r
	return u
}

func scope(ownerID string) string {
	if ownerID == loanDomain.AdminOwnerID {
		return ""
	}
	return ownerID
}

// ---- templates ----

// EnsureDefaultTemplate seeds the standard template when it is missing.
func (u *Usecase) EnsureDefaultTemplate(ctx context.Context) error {
	_, err := u.templates.GetByID(ctx, domain.DefaultTemplateID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	tpl := domain.DefaultTemplate()
	tpl.CreatedAt, tpl.UpdatedAt = u.now(), u.now()
	if err := u.templates.Create(ctx, &tpl); err != nil {
		return fmt.Errorf("seed default template: %w", err)
	}
	u.log.WithField("template_id", tpl.ID).Info("default contract template seeded")
	return nil
}

func (u *Usecase) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	if err := u.EnsureDefaultTemplate(ctx); err != nil {
		return nil, err
	}
	return u.templates.List(ctx)
}

func (u *Usecase) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	if templateID == domain.DefaultTemplateID {
		if err := u.EnsureDefaultTemplate(ctx); err != nil {
			return nil, err
		}
	}
	t, err := u.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (u *Usecase) CreateTemplate(ctx context.Context, in TemplateInput) (*domain.Template, error) {
	vars := in.Variables
	if len(vars) == 0 {
		vars = domain.Placeholders(in.Content)
	}
	now := u.now()
	t := &domain.Template{
		ID:          id.NewID32(),
		Name:        in.Name,
		Description: in.Description,
		Content:     in.Content,
		Variables:   vars,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *Usecase) UpdateTemplate(ctx context.Context, templateID string, p domain.TemplatePatch) (*domain.Template, error) {
	t, err := u.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Content != nil {
		t.Content = *p.Content
		if p.Variables == nil {
			t.Variables = domain.Placeholders(t.Content)
		}
	}
	if p.Variables != nil {
		t.Variables = p.Variables
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
	t.UpdatedAt = u.now()
	if err := u.templates.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *Usecase) DeleteTemplate(ctx context.Context, templateID string) error {
	if err := u.templates.Delete(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// ---- contracts ----

func dateBR(t time.Time) string { return t.Format("02/01/2006") }

// Variables returns the template values for a loan as of now.
func Variables(l loanDomain.Loan, now time.Time) map[string]string {
	return map[string]string{
		"clientName":        l.FullName,
		"clientCpf":         l.CPF,
		"clientPhone":       l.Phone,
		"loanAmount":        domain.FormatBRL(l.LoanAmount),
		"loanAmountText":    domain.AmountInWords(l.LoanAmount),
		"totalInstallments": strconv.Itoa(l.TotalInstallments),
		"dailyPenalty":      domain.FormatBRL(l.DailyPenalty),
		"loanDate":          dateBR(l.LoanDate),
		"contractDate":      dateBR(now),
	}
}

// GenerateFromLoan renders a draft contract for the loan. A loan holds at most one contract.
func (u *Usecase) GenerateFromLoan(ctx context.Context, loanID, templateID, ownerID string) (*domain.Contract, error) {
	if templateID == "" {
		templateID = domain.DefaultTemplateID
	}
	tpl, err := u.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, domain.ErrTemplateNotFound
	}

	if u.loans != nil {
		if _, err := u.loans.GetByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, loanDomain.ErrNotFound) {
				return nil, loanDomain.ErrNotFound
			}
			return nil, err
		}
	}

	var out *domain.Contract
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if s := scope(ownerID); s != "" && l.CreatedBy != s {
			return loanDomain.ErrNotFound
		}
		if _, err := r.Contracts.GetByLoanID(ctx, l.ID); err == nil {
			return domain.ErrAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := u.now()
		c := &domain.Contract{
			ID:                id.NewID32(),
			LoanID:            l.ID,
			TemplateID:        tpl.ID,
			ClientName:        l.FullName,
			ClientCPF:         l.CPF,
			ClientPhone:       l.Phone,
			LoanAmount:        l.LoanAmount,
			TotalInstallments: l.TotalInstallments,
			DailyPenalty:      l.DailyPenalty,
			LoanDate:          l.LoanDate,
			ContractDate:      now,
			Content:           domain.Render(tpl.Content, Variables(*l, now)),
			Status:            domain.StatusDraft,
			CreatedBy:         l.CreatedBy,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := r.Contracts.Create(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"contract_id": out.ID, "loan_id": loanID}).Info("contract generated")
	return out, nil
}

func (u *Usecase) load(ctx context.Context, contractID, ownerID string) (*domain.Contract, error) {
	c, err := u.repo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if s := scope(ownerID); s != "" && c.CreatedBy != s {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (u *Usecase) Get(ctx context.Context, contractID, ownerID string) (*domain.Contract, error) {
	return u.load(ctx, contractID, ownerID)
}

func (u *Usecase) GetByLoan(ctx context.Context, loanID, ownerID string) (*domain.Contract, error) {
	c, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if s := scope(ownerID); s != "" && c.CreatedBy != s {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (u *Usecase) List(ctx context.Context, ownerID string) ([]domain.Contract, error) {
	return u.repo.List(ctx, scope(ownerID))
}

func (u *Usecase) Delete(ctx context.Context, contractID, ownerID string) error {
	c, err := u.load(ctx, contractID, ownerID)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (u *Usecase) Sign(ctx context.Context, contractID string, sigs domain.Signatures, ownerID string) (*domain.Contract, error) {
	c, err := u.load(ctx, contractID, ownerID)
	if err != nil {
		return nil, err
	}
	before := c.Status
	if err := c.ApplySignatures(sigs, u.now()); err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	if c.Status != before {
		u.log.WithFields(logrus.Fields{"contract_id": c.ID, "status": c.Status}).Info("contract status changed")
		if u.notify != nil {
			u.notify.ContractSigned(ctx, *c)
		}
	}
	return c, nil
}

// GeneratePDF records where the rendered document lives. Rendering itself is out of process.
func (u *Usecase) GeneratePDF(ctx context.Context, contractID, ownerID string) (*domain.Contract, error) {
	c, err := u.load(ctx, contractID, ownerID)
	if err != nil {
		return nil, err
	}
	pdf := "/contracts/" + c.ID + "/contrato.pdf"
	c.PDFURL = &pdf
	c.UpdatedAt = u.now()
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"contract_id": c.ID, "pdf_url": pdf}).Info("contract pdf generated")
	return c, nil
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ShareWhatsApp builds a wa.me link for the contract. Delivery is only logged.
// An empty phone falls back to the client's phone.
func (u *Usecase) ShareWhatsApp(ctx context.Context, contractID, phone, ownerID string) (*ShareResult, error) {
	c, err := u.load(ctx, contractID, ownerID)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		phone = c.ClientPhone
	}
	num := digits(phone)
	if num == "" {
		return nil, fmt.Errorf("%w: phone has no digits", loanDomain.ErrInvalidInput)
	}
	if !strings.HasPrefix(num, "55") {
		num = "55" + num
	}
	msg := fmt.Sprintf("Olá %s! Segue o seu contrato de empréstimo no valor de R$ %s.", c.ClientName, domain.FormatBRL(c.LoanAmount))
	if c.PDFURL != nil {
		msg += " Documento: " + *c.PDFURL
	}
	res := &ShareResult{
		ContractID: c.ID,
		Phone:      num,
		URL:        "https://wa.me/" + num + "?text=" + url.QueryEscape(msg),
		Message:    msg,
	}
	u.log.WithFields(logrus.Fields{"contract_id": c.ID, "phone": num}).Info("contract shared via whatsapp")
	return res, nil
}
