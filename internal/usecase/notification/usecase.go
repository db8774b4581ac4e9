package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	contractDomain "credconecta-backend/internal/domain/contract"
	loanDomain "credconecta-backend/internal/domain/loan"
	domain "credconecta-backend/internal/domain/notification"
	"credconecta-backend/internal/infrastructure/metrics"
	"credconecta-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Usecase struct {
	repo     domain.Repository
	settings domain.SettingsRepository
	loans    loanDomain.Repository
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewUsecase(repo domain.Repository, settings domain.SettingsRepository, loans loanDomain.Repository, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		repo:     repo,
		settings: settings,
		loans:    loans,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func (u *Usecase) Add(ctx context.Context, in CreateInput) (*domain.Notification, error) {
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	n := &domain.Notification{
		ID:           id.NewID32(),
		UserID:       in.UserID,
		Type:         in.Type,
		Title:        in.Title,
		Message:      in.Message,
		Priority:     in.Priority,
		LoanID:       in.LoanID,
		ContractID:   in.ContractID,
		ActionURL:    in.ActionURL,
		Metadata:     in.Metadata,
		ScheduledFor: in.ScheduledFor,
		CreatedAt:    u.now(),
	}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	u.push(ctx, n)
	return n, nil
}

// push simulates device delivery. Nothing is sent during the user's quiet hours.
func (u *Usecase) push(ctx context.Context, n *domain.Notification) {
	s, err := u.GetSettings(ctx, n.UserID)
	if err != nil {
		u.log.WithError(err).WithField("user_id", n.UserID).Warn("push: settings unavailable")
		return
	}
	entry := u.log.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"type":            n.Type,
		"priority":        n.Priority,
	})
	if s.InQuietHours(u.now()) {
		entry.Debug("push: suppressed during quiet hours")
		return
	}
	entry.WithFields(logrus.Fields{"sound": s.SoundEnabled, "vibration": s.VibrationEnabled}).
		Info("push: delivered")
}

func (u *Usecase) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return u.repo.ListByUser(ctx, userID)
}

func (u *Usecase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return u.repo.CountUnread(ctx, userID)
}

// owned loads a notification and hides other users' notifications.
func (u *Usecase) owned(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := u.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, notFound(err)
	}
	if n.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (u *Usecase) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := u.owned(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return notFound(u.repo.MarkRead(ctx, n.ID, u.now()))
}

func (u *Usecase) MarkAllRead(ctx context.Context, userID string) error {
	return u.repo.MarkAllRead(ctx, userID, u.now())
}

func (u *Usecase) Delete(ctx context.Context, notificationID, userID string) error {
	n, err := u.owned(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	return notFound(u.repo.Delete(ctx, n.ID))
}

// GetSettings returns the stored settings, or the defaults for users who never saved any.
func (u *Usecase) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	s, err := u.settings.Get(ctx, userID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	def := domain.DefaultSettings(userID, u.now())
	return &def, nil
}

func (u *Usecase) UpdateSettings(ctx context.Context, userID string, p domain.SettingsPatch) (*domain.Settings, error) {
	s, err := u.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.Apply(p, u.now())
	if err := u.settings.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// notifyIf stores in when the owner's settings allow it. Failures are logged.
func (u *Usecase) notifyIf(ctx context.Context, allowed func(domain.Settings) bool, in CreateInput) bool {
	entry := u.log.WithFields(logrus.Fields{"user_id": in.UserID, "type": in.Type})
	s, err := u.GetSettings(ctx, in.UserID)
	if err != nil {
		entry.WithError(err).Warn("notification skipped: settings unavailable")
		return false
	}
	if !allowed(*s) {
		return false
	}
	if _, err := u.Add(ctx, in); err != nil {
		entry.WithError(err).Warn("notification not stored")
		return false
	}
	return true
}

func loanRef(l loanDomain.Loan) *string {
	ref := l.ID
	return &ref
}

func (u *Usecase) LoanAdded(ctx context.Context, l loanDomain.Loan) {
	u.notifyIf(ctx, func(s domain.Settings) bool { return s.NewLoanNotifications }, CreateInput{
		UserID:    l.CreatedBy,
		Type:      domain.TypeNewLoan,
		Title:     "Novo empréstimo cadastrado",
		Message:   fmt.Sprintf("Empréstimo de R$ %s para %s registrado.", l.LoanAmount.StringFixed(2), l.FullName),
		Priority:  domain.PriorityLow,
		LoanID:    loanRef(l),
		ActionURL: "/loans/" + l.ID,
	})
}

func (u *Usecase) LoanSettled(ctx context.Context, l loanDomain.Loan) {
	u.notifyIf(ctx, func(s domain.Settings) bool { return s.SettlementConfirmations }, CreateInput{
		UserID:    l.CreatedBy,
		Type:      domain.TypeSettlementConfirmation,
		Title:     "Empréstimo quitado",
		Message:   fmt.Sprintf("O empréstimo de %s foi quitado.", l.FullName),
		Priority:  domain.PriorityMedium,
		LoanID:    loanRef(l),
		ActionURL: "/loans/" + l.ID,
	})
}

func (u *Usecase) ContractSigned(ctx context.Context, c contractDomain.Contract) {
	loanID, contractID := c.LoanID, c.ID
	u.notifyIf(ctx, func(s domain.Settings) bool { return s.ContractNotifications }, CreateInput{
		UserID:     c.CreatedBy,
		Type:       domain.TypeContractSigned,
		Title:      "Contrato assinado",
		Message:    fmt.Sprintf("O contrato de %s mudou para %s.", c.ClientName, c.Status),
		Priority:   domain.PriorityMedium,
		LoanID:     &loanID,
		ContractID: &contractID,
		ActionURL:  "/contracts/" + c.ID,
		Metadata:   map[string]string{"status": string(c.Status)},
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CheckOverdueLoans raises one overdue alert per overdue loan per day, and a
// payment reminder for loans whose due date falls within the owner's reminder window.
func (u *Usecase) CheckOverdueLoans(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	loans, err := u.loans.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list loans: %w", err)
	}
	now := u.now()
	today := startOfDay(now)

	overdue := loanDomain.FilterOverdue(loans, now, "")
	res.Overdue = len(overdue)
	metrics.OverdueLoans.Set(float64(len(overdue)))

	for _, l := range overdue {
		sent, err := u.repo.ExistsSince(ctx, l.ID, domain.TypeOverdueAlert, today)
		if err != nil {
			return res, err
		}
		if sent {
			continue
		}
		days := loanDomain.DaysElapsed(l, now)
		penalty := loanDomain.CalculatePenalty(l, now)
		priority := domain.PriorityHigh
		if days > 30 {
			priority = domain.PriorityUrgent
		}
		ok := u.notifyIf(ctx, func(s domain.Settings) bool { return s.OverdueAlerts }, CreateInput{
			UserID:    l.CreatedBy,
			Type:      domain.TypeOverdueAlert,
			Title:     "Empréstimo em atraso",
			Message:   fmt.Sprintf("%s está com %d dia(s) de atraso. Multa acumulada: R$ %s.", l.FullName, days, penalty.StringFixed(2)),
			Priority:  priority,
			LoanID:    loanRef(l),
			ActionURL: "/loans/" + l.ID,
			Metadata: map[string]string{
				"days_overdue": strconv.FormatInt(days, 10),
				"penalty":      penalty.StringFixed(2),
			},
		})
		if ok {
			res.Alerts++
		}
	}

	for _, l := range loans {
		if l.IsSettled || l.RemainingInstallments <= 0 || !l.LoanDate.After(now) {
			continue
		}
		s, err := u.GetSettings(ctx, l.CreatedBy)
		if err != nil {
			return res, err
		}
		daysLeft := int(startOfDay(l.LoanDate).Sub(today) / (24 * time.Hour))
		if daysLeft > s.ReminderDaysBefore {
			continue
		}
		sent, err := u.repo.ExistsSince(ctx, l.ID, domain.TypePaymentReminder, today)
		if err != nil {
			return res, err
		}
		if sent {
			continue
		}
		ok := u.notifyIf(ctx, func(s domain.Settings) bool { return s.PaymentReminders }, CreateInput{
			UserID:    l.CreatedBy,
			Type:      domain.TypePaymentReminder,
			Title:     "Vencimento próximo",
			Message:   fmt.Sprintf("O empréstimo de %s vence em %d dia(s).", l.FullName, daysLeft),
			Priority:  domain.PriorityMedium,
			LoanID:    loanRef(l),
			ActionURL: "/loans/" + l.ID,
		})
		if ok {
			res.Reminders++
		}
	}

	u.log.WithFields(logrus.Fields{
		"overdue":   res.Overdue,
		"alerts":    res.Alerts,
		"reminders": res.Reminders,
	}).Info("overdue sweep finished")
	return res, nil
}
