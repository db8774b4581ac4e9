package contract

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("contract not found")
	ErrTemplateNotFound  = errors.New("contract template not found")
	ErrAlreadyExists     = errors.New("loan already has a contract")
	ErrInvalidTransition = errors.New("invalid contract status transition")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSigned    Status = "signed"
	StatusCompleted Status = "completed"
)

// DefaultTemplateID identifies the template seeded on first use.
const DefaultTemplateID = "default-template"

// Table: contracts
type Contract struct {
	ID                string          `gorm:"column:id;primaryKey;size:32" json:"id"`
	LoanID            string          `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_contracts_loan" json:"loan_id"`
	TemplateID        string          `gorm:"column:template_id;size:64;not null" json:"template_id"`
	ClientName        string          `gorm:"column:client_name;size:255" json:"client_name"`
	ClientCPF         string          `gorm:"column:client_cpf;size:32" json:"client_cpf"`
	ClientPhone       string          `gorm:"column:client_phone;size:32" json:"client_phone"`
	LoanAmount        decimal.Decimal `gorm:"column:loan_amount;type:decimal(18,2)" json:"loan_amount"`
	TotalInstallments int             `gorm:"column:total_installments" json:"total_installments"`
	DailyPenalty      decimal.Decimal `gorm:"column:daily_penalty;type:decimal(18,2)" json:"daily_penalty"`
	LoanDate          time.Time       `gorm:"column:loan_date;type:date" json:"loan_date"`
	ContractDate      time.Time       `gorm:"column:contract_date" json:"contract_date"`
	Content           string          `gorm:"column:content;type:text" json:"content"`
	ClientSignature   *string         `gorm:"column:client_signature;type:text" json:"client_signature,omitempty"`
	LenderSignature   *string         `gorm:"column:lender_signature;type:text" json:"lender_signature,omitempty"`
	WitnessSignature  *string         `gorm:"column:witness_signature;type:text" json:"witness_signature,omitempty"`
	Status            Status          `gorm:"column:status;size:16;default:'draft'" json:"status"`
	PDFURL            *string         `gorm:"column:pdf_url;type:text" json:"pdf_url,omitempty"`
	CreatedBy         string          `gorm:"column:created_by;size:32;index" json:"created_by"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

// Signatures holds the signature blobs submitted when signing. Nil fields keep the stored value.
type Signatures struct {
	Client  *string
	Lender  *string
	Witness *string
}

// ApplySignatures stores the given signatures and advances the status:
// client and lender make a contract signed, a witness on top completes it.
func (c *Contract) ApplySignatures(s Signatures, now time.Time) error {
	if c.Status == StatusCompleted {
		return ErrInvalidTransition
	}
	if s.Client != nil {
		c.ClientSignature = s.Client
	}
	if s.Lender != nil {
		c.LenderSignature = s.Lender
	}
	if s.Witness != nil {
		c.WitnessSignature = s.Witness
	}
	switch {
	case present(c.ClientSignature) && present(c.LenderSignature) && present(c.WitnessSignature):
		c.Status = StatusCompleted
	case present(c.ClientSignature) && present(c.LenderSignature):
		c.Status = StatusSigned
	}
	c.UpdatedAt = now
	return nil
}

func present(s *string) bool { return s != nil && *s != "" }

// Table: contract_templates
type Template struct {
	ID          string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	Variables   []string  `gorm:"column:variables;serializer:json" json:"variables"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Template) TableName() string { return "contract_templates" }

// TemplatePatch carries the template fields an update may change.
type TemplatePatch struct {
	Name        *string
	Description *string
	Content     *string
	Variables   []string
	IsActive    *bool
}
