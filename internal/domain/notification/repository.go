package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByLoanID(ctx context.Context, loanID string) error
	// ExistsSince reports whether a notification of type typ for loanID was created at or after since.
	ExistsSince(ctx context.Context, loanID string, typ Type, since time.Time) (bool, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
