package uow

import (
	"context"

	"credconecta-backend/internal/domain/contract"
	"credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/domain/notification"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans         loan.LockingRepository
	Contracts     contract.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
