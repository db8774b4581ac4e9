package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is an aggregate snapshot over a loan set. It is never persisted.
type Report struct {
	TotalLoans     int             `json:"total_loans"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SettledLoans   int             `json:"settled_loans"`
	PendingLoans   int             `json:"pending_loans"`
	OverdueLoans   int             `json:"overdue_loans"`
	TotalPenalties decimal.Decimal `json:"total_penalties"`
}

// BuildReport aggregates loans owned by ownerID (all owners when empty) in a single pass.
func BuildReport(loans []Loan, now time.Time, ownerID string) Report {
	r := Report{TotalAmount: decimal.Zero, TotalPenalties: decimal.Zero}
	for _, l := range OwnedBy(loans, ownerID) {
		r.TotalLoans++
		r.TotalAmount = r.TotalAmount.Add(l.LoanAmount)
		if l.IsSettled {
			r.SettledLoans++
		} else {
			r.PendingLoans++
		}
		if IsOverdue(l, now) {
			r.OverdueLoans++
		}
		r.TotalPenalties = r.TotalPenalties.Add(CalculatePenalty(l, now))
	}
	return r
}
