package notification

import (
	"testing"
	"time"
)

func at(h, m int) time.Time { return time.Date(2025, 3, 3, h, m, 0, 0, time.UTC) }

func TestInQuietHours(t *testing.T) {
	wrap := Settings{QuietHoursStart: "22:00", QuietHoursEnd: "08:00"}
	day := Settings{QuietHoursStart: "12:00", QuietHoursEnd: "14:00"}
	off := Settings{QuietHoursStart: "bad", QuietHoursEnd: "08:00"}

	tests := []struct {
		name string
		s    Settings
		t    time.Time
		want bool
	}{
		{"wrap late night", wrap, at(23, 30), true},
		{"wrap early morning", wrap, at(7, 59), true},
		{"wrap end is exclusive", wrap, at(8, 0), false},
		{"wrap midday", wrap, at(13, 0), false},
		{"daytime window inside", day, at(12, 30), true},
		{"daytime window outside", day, at(15, 0), false},
		{"unparseable disables", off, at(3, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.InQuietHours(tt.t); got != tt.want {
				t.Fatalf("InQuietHours(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestSettingsApply(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := DefaultSettings("u1", now.Add(-time.Hour))
	off := false
	days := 5
	s.Apply(SettingsPatch{OverdueAlerts: &off, ReminderDaysBefore: &days}, now)

	if s.OverdueAlerts || s.ReminderDaysBefore != 5 {
		t.Fatalf("patch not applied: %+v", s)
	}
	if !s.PaymentReminders || !s.NewLoanNotifications {
		t.Fatalf("untouched fields changed: %+v", s)
	}
	if !s.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v", s.UpdatedAt)
	}
}
