package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_TwoLoans(t *testing.T) {
	now := date(2024, 1, 11)
	loans := []Loan{
		{ID: "1", LoanAmount: decimal.NewFromInt(1000), LoanDate: date(2024, 1, 1), DailyPenalty: decimal.NewFromInt(30), TotalInstallments: 5, PaidInstallments: 5, IsSettled: true},
		{ID: "2", LoanAmount: decimal.NewFromInt(2000), LoanDate: date(2024, 1, 1), DailyPenalty: decimal.NewFromInt(30), TotalInstallments: 5, RemainingInstallments: 5},
	}

	r := BuildReport(loans, now, "")
	assert.Equal(t, 2, r.TotalLoans)
	assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(3000)), "total amount %s", r.TotalAmount)
	assert.Equal(t, 1, r.SettledLoans)
	assert.Equal(t, 1, r.PendingLoans)
	assert.Equal(t, 1, r.OverdueLoans)
	assert.True(t, r.TotalPenalties.Equal(decimal.NewFromInt(300)), "penalties %s", r.TotalPenalties)
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport(nil, time.Now(), "")
	assert.Zero(t, r.TotalLoans)
	assert.True(t, r.TotalAmount.IsZero())
	assert.True(t, r.TotalPenalties.IsZero())
}

func TestBuildReport_OwnerScope(t *testing.T) {
	now := date(2024, 2, 1)
	loans := []Loan{
		{ID: "a", CreatedBy: "u1", LoanAmount: decimal.NewFromInt(100), LoanDate: date(2024, 1, 1), RemainingInstallments: 1, DailyPenalty: decimal.NewFromInt(1)},
		{ID: "b", CreatedBy: "u2", LoanAmount: decimal.NewFromInt(700), LoanDate: date(2024, 1, 1), RemainingInstallments: 1, DailyPenalty: decimal.NewFromInt(1)},
		{ID: "c", CreatedBy: "u1", LoanAmount: decimal.NewFromInt(50), IsSettled: true},
	}

	r := BuildReport(loans, now, "u1")
	assert.Equal(t, 2, r.TotalLoans)
	assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 1, r.OverdueLoans)
	assert.True(t, r.TotalPenalties.Equal(decimal.NewFromInt(31)))
}

func TestBuildReport_PenaltiesIndependentOfOverdue(t *testing.T) {
	// No remaining installments: not overdue, but the penalty still accrues.
	now := date(2024, 1, 6)
	loans := []Loan{
		{ID: "x", LoanDate: date(2024, 1, 1), DailyPenalty: decimal.NewFromInt(10), TotalInstallments: 2, PaidInstallments: 2},
	}
	r := BuildReport(loans, now, "")
	assert.Zero(t, r.OverdueLoans)
	assert.True(t, r.TotalPenalties.Equal(decimal.NewFromInt(50)))
}

func TestBuildReport_TotalsBalance(t *testing.T) {
	now := date(2024, 5, 5)
	var loans []Loan
	for i := 0; i < 37; i++ {
		loans = append(loans, Loan{
			LoanAmount:   decimal.RequireFromString("0.10"),
			IsSettled:    i%3 == 0,
			LoanDate:     date(2024, 5, 1),
			DailyPenalty: decimal.RequireFromString("0.01"),
		})
	}
	r := BuildReport(loans, now, "")
	require.Equal(t, r.TotalLoans, r.SettledLoans+r.PendingLoans)
	// 37 * 0.10 is exact in decimal arithmetic.
	assert.Equal(t, "3.7", r.TotalAmount.String())
}

func TestBuildReport_DoesNotMutateInput(t *testing.T) {
	loans := []Loan{{ID: "a", LoanAmount: decimal.NewFromInt(1), LoanDate: date(2024, 1, 1), RemainingInstallments: 1}}
	before := loans[0]
	_ = BuildReport(loans, date(2024, 2, 1), "")
	assert.Equal(t, before, loans[0])
}
