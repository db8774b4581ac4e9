package mysql

import (
	"context"
	"time"

	notificationDomain "credconecta-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notificationDomain.Notification, error) {
	var out notificationDomain.Notification
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n)
	return n, res.Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead keeps the first read_at of notifications that were already read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&notificationDomain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteByLoanID(ctx context.Context, loanID string) error {
	return r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&notificationDomain.Notification{}).Error
}

func (r *NotificationRepository) ExistsSince(ctx context.Context, loanID string, typ notificationDomain.Type, since time.Time) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("loan_id = ? AND type = ? AND created_at >= ?", loanID, typ, since).
		Count(&n)
	return n > 0, res.Error
}

type SettingsRepository struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) *SettingsRepository { return &SettingsRepository{db: db} }

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*notificationDomain.Settings, error) {
	var out notificationDomain.Settings
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *SettingsRepository) Save(ctx context.Context, s *notificationDomain.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}
