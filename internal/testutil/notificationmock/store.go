package notificationmock

import (
	"context"
	"sort"
	"time"

	domain "credconecta-backend/internal/domain/notification"

	"gorm.io/gorm"
)

var (
	_ domain.Repository         = (*Store)(nil)
	_ domain.SettingsRepository = (*SettingsStore)(nil)
)

// Store is a map-backed notification repository.
type Store struct {
	Items map[string]domain.Notification
}

func NewStore() *Store { return &Store{Items: map[string]domain.Notification{}} }

func (s *Store) Create(_ context.Context, n *domain.Notification) error {
	s.Items[n.ID] = *n
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	n, ok := s.Items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range s.Items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountUnread(_ context.Context, userID string) (int64, error) {
	var c int64
	for _, n := range s.Items {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (s *Store) MarkRead(_ context.Context, id string, at time.Time) error {
	n, ok := s.Items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead, n.ReadAt = true, &at
	s.Items[id] = n
	return nil
}

func (s *Store) MarkAllRead(_ context.Context, userID string, at time.Time) error {
	for id, n := range s.Items {
		if n.UserID == userID && !n.IsRead {
			n.IsRead, n.ReadAt = true, &at
			s.Items[id] = n
		}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if _, ok := s.Items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.Items, id)
	return nil
}

func (s *Store) DeleteByLoanID(_ context.Context, loanID string) error {
	for id, n := range s.Items {
		if n.LoanID != nil && *n.LoanID == loanID {
			delete(s.Items, id)
		}
	}
	return nil
}

func (s *Store) ExistsSince(_ context.Context, loanID string, typ domain.Type, since time.Time) (bool, error) {
	for _, n := range s.Items {
		if n.LoanID != nil && *n.LoanID == loanID && n.Type == typ && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// ByType returns the stored notifications of typ, in no particular order.
func (s *Store) ByType(typ domain.Type) []domain.Notification {
	var out []domain.Notification
	for _, n := range s.Items {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type SettingsStore struct {
	Items map[string]domain.Settings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{Items: map[string]domain.Settings{}}
}

func (s *SettingsStore) Get(_ context.Context, userID string) (*domain.Settings, error) {
	v, ok := s.Items[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (s *SettingsStore) Save(_ context.Context, v *domain.Settings) error {
	s.Items[v.UserID] = *v
	return nil
}
