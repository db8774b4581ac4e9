package notification

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypePaymentReminder        Type = "payment_reminder"
	TypeOverdueAlert           Type = "overdue_alert"
	TypeNewLoan                Type = "new_loan"
	TypeSettlementConfirmation Type = "settlement_confirmation"
	TypeContractSigned         Type = "contract_signed"
	TypeSystemAlert            Type = "system_alert"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Table: notifications
type Notification struct {
	ID           string            `gorm:"column:id;primaryKey;size:32" json:"id"`
	UserID       string            `gorm:"column:user_id;size:32;not null;index:idx_notifications_user" json:"user_id"`
	Type         Type              `gorm:"column:type;size:32;not null" json:"type"`
	Title        string            `gorm:"column:title;size:255" json:"title"`
	Message      string            `gorm:"column:message;type:text" json:"message"`
	Priority     Priority          `gorm:"column:priority;size:16" json:"priority"`
	LoanID       *string           `gorm:"column:loan_id;size:32;index" json:"loan_id,omitempty"`
	ContractID   *string           `gorm:"column:contract_id;size:32" json:"contract_id,omitempty"`
	ActionURL    string            `gorm:"column:action_url;size:255" json:"action_url,omitempty"`
	Metadata     map[string]string `gorm:"column:metadata;serializer:json" json:"metadata,omitempty"`
	IsRead       bool              `gorm:"column:is_read" json:"is_read"`
	ReadAt       *time.Time        `gorm:"column:read_at" json:"read_at,omitempty"`
	ScheduledFor *time.Time        `gorm:"column:scheduled_for" json:"scheduled_for,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// Table: notification_settings
type Settings struct {
	UserID                  string    `gorm:"column:user_id;primaryKey;size:32" json:"user_id"`
	PaymentReminders        bool      `gorm:"column:payment_reminders" json:"payment_reminders"`
	OverdueAlerts           bool      `gorm:"column:overdue_alerts" json:"overdue_alerts"`
	NewLoanNotifications    bool      `gorm:"column:new_loan_notifications" json:"new_loan_notifications"`
	SettlementConfirmations bool      `gorm:"column:settlement_confirmations" json:"settlement_confirmations"`
	ContractNotifications   bool      `gorm:"column:contract_notifications" json:"contract_notifications"`
	SystemAlerts            bool      `gorm:"column:system_alerts" json:"system_alerts"`
	ReminderDaysBefore      int       `gorm:"column:reminder_days_before" json:"reminder_days_before"`
	QuietHoursStart         string    `gorm:"column:quiet_hours_start;size:5" json:"quiet_hours_start"`
	QuietHoursEnd           string    `gorm:"column:quiet_hours_end;size:5" json:"quiet_hours_end"`
	SoundEnabled            bool      `gorm:"column:sound_enabled" json:"sound_enabled"`
	VibrationEnabled        bool      `gorm:"column:vibration_enabled" json:"vibration_enabled"`
	CreatedAt               time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Settings) TableName() string { return "notification_settings" }

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(userID string, now time.Time) Settings {
	return Settings{
		UserID:                  userID,
		PaymentReminders:        true,
		OverdueAlerts:           true,
		NewLoanNotifications:    true,
		SettlementConfirmations: true,
		ContractNotifications:   true,
		SystemAlerts:            true,
		ReminderDaysBefore:      3,
		QuietHoursStart:         "22:00",
		QuietHoursEnd:           "08:00",
		SoundEnabled:            true,
		VibrationEnabled:        true,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// SettingsPatch carries the settings fields an update may change.
type SettingsPatch struct {
	PaymentReminders        *bool
	OverdueAlerts           *bool
	NewLoanNotifications    *bool
	SettlementConfirmations *bool
	ContractNotifications   *bool
	SystemAlerts            *bool
	ReminderDaysBefore      *int
	QuietHoursStart         *string
	QuietHoursEnd           *string
	SoundEnabled            *bool
	VibrationEnabled        *bool
}

func (s *Settings) Apply(p SettingsPatch, now time.Time) {
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	setBool(&s.PaymentReminders, p.PaymentReminders)
	setBool(&s.OverdueAlerts, p.OverdueAlerts)
	setBool(&s.NewLoanNotifications, p.NewLoanNotifications)
	setBool(&s.SettlementConfirmations, p.SettlementConfirmations)
	setBool(&s.ContractNotifications, p.ContractNotifications)
	setBool(&s.SystemAlerts, p.SystemAlerts)
	setBool(&s.SoundEnabled, p.SoundEnabled)
	setBool(&s.VibrationEnabled, p.VibrationEnabled)
	if p.ReminderDaysBefore != nil {
		s.ReminderDaysBefore = *p.ReminderDaysBefore
	}
	if p.QuietHoursStart != nil {
		s.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		s.QuietHoursEnd = *p.QuietHoursEnd
	}
	s.UpdatedAt = now
}

// InQuietHours reports whether t's wall clock falls inside the quiet window.
// Windows may wrap midnight ("22:00" to "08:00"). Unparseable bounds disable the window.
func (s Settings) InQuietHours(t time.Time) bool {
	start, ok1 := minuteOfDay(s.QuietHoursStart)
	end, ok2 := minuteOfDay(s.QuietHoursEnd)
	if !ok1 || !ok2 || start == end {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}

func minuteOfDay(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
