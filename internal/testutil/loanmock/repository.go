package loanmock

import (
	"context"

	domain "credconecta-backend/internal/domain/loan"
)

var _ domain.LockingRepository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.LockingRepository.
// Writers default to a nil error, getters to context.Canceled.
type Repo struct {
	CreateFn           func(ctx context.Context, l *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFn func(ctx context.Context, id string) (*domain.Loan, error)
	ListFn             func(ctx context.Context) ([]domain.Loan, error)
	SaveFn             func(ctx context.Context, l *domain.Loan) error
	DeleteFn           func(ctx context.Context, id string) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// Store is a map-backed loan repository for usecase tests that need real
// read-after-write behaviour.
type Store struct {
	Loans map[string]domain.Loan
	Order []string
}

var _ domain.LockingRepository = (*Store)(nil)

func NewStore(loans ...domain.Loan) *Store {
	s := &Store{Loans: map[string]domain.Loan{}}
	for _, l := range loans {
		s.put(l)
	}
	return s
}

func (s *Store) put(l domain.Loan) {
	if _, ok := s.Loans[l.ID]; !ok {
		s.Order = append(s.Order, l.ID)
	}
	s.Loans[l.ID] = l
}

func (s *Store) Create(_ context.Context, l *domain.Loan) error {
	s.put(*l)
	return nil
}
func (s *Store) Save(_ context.Context, l *domain.Loan) error {
	s.put(*l)
	return nil
}
func (s *Store) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	l, ok := s.Loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}
func (s *Store) GetByIDForUpdate(ctx context.Context, id string) (*domain.Loan, error) {
	return s.GetByID(ctx, id)
}
func (s *Store) List(context.Context) ([]domain.Loan, error) {
	out := make([]domain.Loan, 0, len(s.Order))
	for _, id := range s.Order {
		if l, ok := s.Loans[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}
func (s *Store) Delete(_ context.Context, id string) error {
	if _, ok := s.Loans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.Loans, id)
	return nil
}
