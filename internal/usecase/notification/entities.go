package notification

import (
	"time"

	domain "credconecta-backend/internal/domain/notification"
)

type CreateInput struct {
	UserID       string
	Type         domain.Type
	Title        string
	Message      string
	Priority     domain.Priority
	LoanID       *string
	ContractID   *string
	ActionURL    string
	Metadata     map[string]string
	ScheduledFor *time.Time
}

// SweepResult summarises one run of the overdue sweep.
type SweepResult struct {
	Overdue   int `json:"overdue"`
	Alerts    int `json:"alerts"`
	Reminders int `json:"reminders"`
}
