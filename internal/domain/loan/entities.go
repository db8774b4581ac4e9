package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidInput = errors.New("invalid loan input")
)

// AdminOwnerID is the createdBy value for loans registered by the administrator.
const AdminOwnerID = "admin"

type Loan struct {
	ID                    string          `gorm:"primaryKey;size:32;column:id" json:"id"`
	FullName              string          `gorm:"size:255;column:full_name" json:"full_name"`
	CPF                   string          `gorm:"size:32;column:cpf;index:idx_loans_cpf" json:"cpf"`
	Phone                 string          `gorm:"size:32;column:phone" json:"phone"`
	LoanDate              time.Time       `gorm:"type:date;column:loan_date" json:"loan_date"`
	LoanAmount            decimal.Decimal `gorm:"type:decimal(18,2);column:loan_amount" json:"loan_amount"`
	TotalInstallments     int             `gorm:"column:total_installments" json:"total_installments"`
	PaidInstallments      int             `gorm:"column:paid_installments" json:"paid_installments"`
	RemainingInstallments int             `gorm:"column:remaining_installments" json:"remaining_installments"`
	DailyPenalty          decimal.Decimal `gorm:"type:decimal(18,2);column:daily_penalty" json:"daily_penalty"`
	Photo                 *string         `gorm:"type:text;column:photo" json:"photo,omitempty"`
	IsSettled             bool            `gorm:"column:is_settled;index:idx_loans_settled" json:"is_settled"`
	CreatedAt             time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"column:updated_at" json:"updated_at"`
	CreatedBy             string          `gorm:"size:32;column:created_by;index:idx_loans_owner" json:"created_by"`
}

func (Loan) TableName() string { return "loans" }

// Patch carries the fields an update may change. Nil means "leave as is".
// RemainingInstallments is derived and has no patch field.
type Patch struct {
	FullName          *string
	CPF               *string
	Phone             *string
	LoanDate          *time.Time
	LoanAmount        *decimal.Decimal
	TotalInstallments *int
	PaidInstallments  *int
	DailyPenalty      *decimal.Decimal
	Photo             *string
	IsSettled         *bool
}

// Apply merges p into l and stamps UpdatedAt. Remaining installments are
// recomputed only when one of the installment counts is part of the patch.
// Settling a loan marks every installment paid.
func (l *Loan) Apply(p Patch, now time.Time) {
	if p.FullName != nil {
		l.FullName = *p.FullName
	}
	if p.CPF != nil {
		l.CPF = *p.CPF
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.LoanDate != nil {
		l.LoanDate = *p.LoanDate
	}
	if p.LoanAmount != nil {
		l.LoanAmount = *p.LoanAmount
	}
	if p.TotalInstallments != nil {
		l.TotalInstallments = *p.TotalInstallments
	}
	if p.PaidInstallments != nil {
		l.PaidInstallments = *p.PaidInstallments
	}
	if p.DailyPenalty != nil {
		l.DailyPenalty = *p.DailyPenalty
	}
	if p.Photo != nil {
		photo := *p.Photo
		l.Photo = &photo
	}
	if p.IsSettled != nil {
		l.IsSettled = *p.IsSettled
	}
	settles := p.IsSettled != nil && *p.IsSettled
	if settles {
		l.PaidInstallments = l.TotalInstallments
	}
	if settles || p.TotalInstallments != nil || p.PaidInstallments != nil {
		l.RemainingInstallments = l.TotalInstallments - l.PaidInstallments
	}
	l.UpdatedAt = now
}

// SettlePatch is the patch applied by settlement.
func SettlePatch(l *Loan) Patch {
	settled := true
	paid := l.TotalInstallments
	return Patch{IsSettled: &settled, PaidInstallments: &paid}
}
