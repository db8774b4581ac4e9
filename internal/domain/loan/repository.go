package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id string) (*Loan, error)
	// List returns every stored loan; ownership scoping is applied by callers.
	List(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id string) error
}

// LockingRepository is implemented by stores that can lock a loan row inside a transaction.
type LockingRepository interface {
	Repository
	GetByIDForUpdate(ctx context.Context, id string) (*Loan, error)
}
