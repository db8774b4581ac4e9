package loan

import (
	"time"

	domain "credconecta-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	FullName          string
	CPF               string
	Phone             string
	LoanDate          time.Time
	LoanAmount        decimal.Decimal
	TotalInstallments int
	PaidInstallments  int
	DailyPenalty      decimal.Decimal
	Photo             *string
}

// LoanDTO is a stored loan plus the values derived at read time.
type LoanDTO struct {
	domain.Loan
	CurrentPenalty decimal.Decimal `json:"current_penalty"`
	IsOverdue      bool            `json:"is_overdue"`
}

type PenaltyDTO struct {
	LoanID       string          `json:"loan_id"`
	DaysElapsed  int64           `json:"days_elapsed"`
	DailyPenalty decimal.Decimal `json:"daily_penalty"`
	Penalty      decimal.Decimal `json:"penalty"`
	IsOverdue    bool            `json:"is_overdue"`
	AsOf         time.Time       `json:"as_of"`
}

const (
	StatusSettled = "settled"
	StatusOverdue = "overdue"
	StatusActive  = "active"
)

type ReportLine struct {
	ID             string          `json:"id"`
	FullName       string          `json:"full_name"`
	CPF            string          `json:"cpf"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	Installments   string          `json:"installments"` // "paid/total"
	Status         string          `json:"status"`
	CurrentPenalty decimal.Decimal `json:"current_penalty"`
}

// OverdueLine is one row of the overdue export.
type OverdueLine struct {
	ID                    string          `json:"id"`
	FullName              string          `json:"full_name"`
	CPF                   string          `json:"cpf"`
	Phone                 string          `json:"phone"`
	LoanAmount            decimal.Decimal `json:"loan_amount"`
	LoanDate              time.Time       `json:"loan_date"`
	RemainingInstallments int             `json:"remaining_installments"`
	DaysOverdue           int64           `json:"days_overdue"`
	Penalty               decimal.Decimal `json:"penalty"`
}

type UserCounts struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Blocked int `json:"blocked"`
}

type FullReport struct {
	Summary     domain.Report `json:"summary"`
	Loans       []ReportLine  `json:"loans"`
	Overdue     []OverdueLine `json:"overdue"`
	Users       *UserCounts   `json:"users,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}
