package contract

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	// GetByLoanID returns the contract generated for a loan, at most one exists.
	GetByLoanID(ctx context.Context, loanID string) (*Contract, error)
	List(ctx context.Context, ownerID string) ([]Contract, error)
	Save(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id string) error
	DeleteByLoanID(ctx context.Context, loanID string) error
}

type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context) ([]Template, error)
	Save(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id string) error
}
