package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// DaysElapsed is the number of whole 24h buckets between the loan date and now.
// It is negative for loan dates in the future.
func DaysElapsed(l Loan, now time.Time) int64 {
	d := now.Sub(l.LoanDate)
	days := int64(d / day)
	if d < 0 && d%day != 0 {
		days-- // floor, not truncation
	}
	return days
}

// CalculatePenalty returns the penalty accrued by l at now.
func CalculatePenalty(l Loan, now time.Time) decimal.Decimal {
	if l.IsSettled {
		return decimal.Zero
	}
	days := DaysElapsed(l, now)
	if days <= 0 {
		return decimal.Zero
	}
	return l.DailyPenalty.Mul(decimal.NewFromInt(days))
}

// IsOverdue reports whether l is in default at now. The loan date is the
// delinquency threshold.
func IsOverdue(l Loan, now time.Time) bool {
	return !l.IsSettled && now.After(l.LoanDate) && l.RemainingInstallments > 0
}

// OwnedBy narrows loans to those created by ownerID. An empty ownerID keeps everything.
func OwnedBy(loans []Loan, ownerID string) []Loan {
	if ownerID == "" {
		return loans
	}
	out := make([]Loan, 0, len(loans))
	for _, l := range loans {
		if l.CreatedBy == ownerID {
			out = append(out, l)
		}
	}
	return out
}

// FilterOverdue returns the overdue loans of ownerID (all owners when empty), in input order.
func FilterOverdue(loans []Loan, now time.Time, ownerID string) []Loan {
	out := make([]Loan, 0)
	for _, l := range OwnedBy(loans, ownerID) {
		if IsOverdue(l, now) {
			out = append(out, l)
		}
	}
	return out
}
