package contractmock

import (
	"context"
	"sort"

	domain "credconecta-backend/internal/domain/contract"

	"gorm.io/gorm"
)

var (
	_ domain.Repository         = (*Store)(nil)
	_ domain.TemplateRepository = (*TemplateStore)(nil)
)

// Store is a map-backed contract repository. Misses return gorm.ErrRecordNotFound
// like the gorm repositories do. CreateErr, when set, fails every Create.
type Store struct {
	Contracts map[string]domain.Contract
	CreateErr error
}

func NewStore() *Store { return &Store{Contracts: map[string]domain.Contract{}} }

func (s *Store) Create(_ context.Context, c *domain.Contract) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.Contracts[c.ID] = *c
	return nil
}

func (s *Store) Save(_ context.Context, c *domain.Contract) error {
	s.Contracts[c.ID] = *c
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	c, ok := s.Contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (s *Store) GetByLoanID(_ context.Context, loanID string) (*domain.Contract, error) {
	for _, c := range s.Contracts {
		if c.LoanID == loanID {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) List(_ context.Context, ownerID string) ([]domain.Contract, error) {
	var out []domain.Contract
	for _, c := range s.Contracts {
		if ownerID == "" || c.CreatedBy == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if _, ok := s.Contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.Contracts, id)
	return nil
}

func (s *Store) DeleteByLoanID(_ context.Context, loanID string) error {
	for id, c := range s.Contracts {
		if c.LoanID == loanID {
			delete(s.Contracts, id)
		}
	}
	return nil
}

type TemplateStore struct {
	Templates map[string]domain.Template
}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{Templates: map[string]domain.Template{}}
}

func (s *TemplateStore) Create(_ context.Context, t *domain.Template) error {
	s.Templates[t.ID] = *t
	return nil
}

func (s *TemplateStore) Save(_ context.Context, t *domain.Template) error {
	s.Templates[t.ID] = *t
	return nil
}

func (s *TemplateStore) GetByID(_ context.Context, id string) (*domain.Template, error) {
	t, ok := s.Templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (s *TemplateStore) List(context.Context) ([]domain.Template, error) {
	out := make([]domain.Template, 0, len(s.Templates))
	for _, t := range s.Templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *TemplateStore) Delete(_ context.Context, id string) error {
	if _, ok := s.Templates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.Templates, id)
	return nil
}
