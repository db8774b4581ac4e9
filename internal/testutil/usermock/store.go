package usermock

import (
	"context"
	"sort"

	domain "credconecta-backend/internal/domain/user"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Store)(nil)

// Store is a map-backed user repository.
type Store struct {
	Users map[string]domain.User
}

func NewStore(users ...domain.User) *Store {
	s := &Store{Users: map[string]domain.User{}}
	for _, u := range users {
		s.Users[u.ID] = u
	}
	return s
}

func (s *Store) Create(_ context.Context, u *domain.User) error {
	s.Users[u.ID] = *u
	return nil
}

func (s *Store) Save(_ context.Context, u *domain.User) error {
	s.Users[u.ID] = *u
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.Users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *Store) GetByCPF(_ context.Context, cpf string) (*domain.User, error) {
	for _, u := range s.Users {
		if u.CPF == cpf {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if _, ok := s.Users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.Users, id)
	return nil
}
