package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrCPFTaken = errors.New("cpf already registered")
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Table: users
type User struct {
	ID                   string        `gorm:"column:id;primaryKey;size:32" json:"id"`
	FullName             string        `gorm:"column:full_name;size:255;not null" json:"full_name"`
	CPF                  string        `gorm:"column:cpf;size:32;not null;uniqueIndex:ux_users_cpf" json:"cpf"`
	Password             string        `gorm:"column:password;size:255;not null" json:"-"`
	IsBlocked            bool          `gorm:"column:is_blocked" json:"is_blocked"`
	MonthlyPaymentStatus PaymentStatus `gorm:"column:monthly_payment_status;size:16;default:'pending'" json:"monthly_payment_status"`
	CreatedAt            time.Time     `gorm:"column:created_at" json:"created_at"`
	LastPayment          *time.Time    `gorm:"column:last_payment" json:"last_payment,omitempty"`
}

func (User) TableName() string { return "users" }

type Patch struct {
	FullName             *string
	CPF                  *string
	Password             *string
	IsBlocked            *bool
	MonthlyPaymentStatus *PaymentStatus
	LastPayment          *time.Time
}

func (u *User) Apply(p Patch) {
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.CPF != nil {
		u.CPF = *p.CPF
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.IsBlocked != nil {
		u.IsBlocked = *p.IsBlocked
	}
	if p.MonthlyPaymentStatus != nil {
		u.MonthlyPaymentStatus = *p.MonthlyPaymentStatus
	}
	if p.LastPayment != nil {
		lp := *p.LastPayment
		u.LastPayment = &lp
	}
}
