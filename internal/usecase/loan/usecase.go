package loan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	domain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/domain/uow"
	"credconecta-backend/internal/domain/user"
	"credconecta-backend/internal/infrastructure/metrics"
	"credconecta-backend/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier receives loan lifecycle events. Implementations log their own failures.
type Notifier interface {
	LoanAdded(ctx context.Context, l domain.Loan)
	LoanSettled(ctx context.Context, l domain.Loan)
}

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	users  user.Repository
	notify Notifier
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewUsecase: repo serves loan reads and writes, tx cascades deletes to
// contracts and notifications.
func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{
		repo: repo,
		uow:  tx,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithNotifier(n Notifier) *Usecase {
	u.notify = n
	return u
}

// WithUsers enables user counts on the unscoped full report.
func (u *Usecase) WithUsers(r user.Repository) *Usecase {
	u.users = r
	return u
}

// Scope turns the caller's owner id into a listing scope. The administrator sees every loan.
func Scope(ownerID string) string {
	if ownerID == domain.AdminOwnerID {
		return ""
	}
	return ownerID
}

func toDTO(l domain.Loan, now time.Time) LoanDTO {
	return LoanDTO{
		Loan:           l,
		CurrentPenalty: domain.CalculatePenalty(l, now),
		IsOverdue:      domain.IsOverdue(l, now),
	}
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg) }

func checkCounts(total, paid int) error {
	switch {
	case total < 0:
		return invalid("total_installments must not be negative")
	case paid < 0:
		return invalid("paid_installments must not be negative")
	case paid > total:
		return invalid("paid_installments must not exceed total_installments")
	}
	return nil
}

func checkMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field + " must not be negative")
	}
	return nil
}

func (u *Usecase) Add(ctx context.Context, in CreateLoanInput, ownerID string) (*LoanDTO, error) {
	if err := checkCounts(in.TotalInstallments, in.PaidInstallments); err != nil {
		return nil, err
	}
	if err := checkMoney("loan_amount", in.LoanAmount); err != nil {
		return nil, err
	}
	if err := checkMoney("daily_penalty", in.DailyPenalty); err != nil {
		return nil, err
	}

	now := u.now()
	l := &domain.Loan{
		ID:                    id.NewID32(),
		FullName:              in.FullName,
		CPF:                   in.CPF,
		Phone:                 in.Phone,
		LoanDate:              in.LoanDate,
		LoanAmount:            in.LoanAmount,
		TotalInstallments:     in.TotalInstallments,
		PaidInstallments:      in.PaidInstallments,
		RemainingInstallments: in.TotalInstallments - in.PaidInstallments,
		DailyPenalty:          in.DailyPenalty,
		Photo:                 in.Photo,
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             ownerID,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	metrics.LoanOperations.WithLabelValues("add").Inc()
	u.log.WithFields(logrus.Fields{"loan_id": l.ID, "owner": ownerID}).Info("loan added")
	if u.notify != nil {
		u.notify.LoanAdded(ctx, *l)
	}

	dto := toDTO(*l, now)
	return &dto, nil
}

// load fetches id and hides loans outside the caller's scope.
func (u *Usecase) load(ctx context.Context, loanID, ownerID string) (*domain.Loan, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if scope := Scope(ownerID); scope != "" && l.CreatedBy != scope {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (u *Usecase) Get(ctx context.Context, loanID, ownerID string) (*LoanDTO, error) {
	l, err := u.load(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*l, u.now())
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, ownerID string) ([]LoanDTO, error) {
	loans, err := u.scoped(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]LoanDTO, 0, len(loans))
	for _, l := range loans {
		out = append(out, toDTO(l, now))
	}
	return out, nil
}

func (u *Usecase) all(ctx context.Context) ([]domain.Loan, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

func (u *Usecase) scoped(ctx context.Context, ownerID string) ([]domain.Loan, error) {
	loans, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OwnedBy(loans, Scope(ownerID)), nil
}

func (u *Usecase) Update(ctx context.Context, loanID string, p domain.Patch, ownerID string) (*LoanDTO, error) {
	for field, v := range map[string]*decimal.Decimal{"loan_amount": p.LoanAmount, "daily_penalty": p.DailyPenalty} {
		if v != nil {
			if err := checkMoney(field, *v); err != nil {
				return nil, err
			}
		}
	}
	l, err := u.load(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	wasSettled := l.IsSettled
	now := u.now()
	l.Apply(p, now)
	if err := checkCounts(l.TotalInstallments, l.PaidInstallments); err != nil {
		return nil, err
	}
	if err := u.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	metrics.LoanOperations.WithLabelValues("update").Inc()
	if l.IsSettled && !wasSettled && u.notify != nil {
		u.notify.LoanSettled(ctx, *l)
	}

	dto := toDTO(*l, now)
	return &dto, nil
}

// Settle marks the loan fully paid. Settling a settled loan is a no-op update.
func (u *Usecase) Settle(ctx context.Context, loanID, ownerID string) (*LoanDTO, error) {
	l, err := u.load(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	wasSettled := l.IsSettled
	now := u.now()
	l.Apply(domain.SettlePatch(l), now)
	if err := u.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	metrics.LoanOperations.WithLabelValues("settle").Inc()
	if !wasSettled {
		u.log.WithField("loan_id", l.ID).Info("loan settled")
		if u.notify != nil {
			u.notify.LoanSettled(ctx, *l)
		}
	}

	dto := toDTO(*l, now)
	return &dto, nil
}

// localCopy is implemented by loan repositories that keep a copy of the loan
// set outside the transactional store.
type localCopy interface {
	Forget(ctx context.Context, id string) error
}

// Delete removes the loan with its contracts and notifications in one unit of
// work. A mirrored copy is dropped once that commits.
func (u *Usecase) Delete(ctx context.Context, loanID, ownerID string) error {
	l, err := u.load(ctx, loanID, ownerID)
	if err != nil {
		return err
	}
	if u.uow == nil {
		if err := u.repo.Delete(ctx, l.ID); err != nil {
			return notFoundOr(err)
		}
	} else {
		err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if err := r.Contracts.DeleteByLoanID(ctx, l.ID); err != nil {
				return err
			}
			if err := r.Notifications.DeleteByLoanID(ctx, l.ID); err != nil {
				return err
			}
			// a loan written during an outage may only exist in the local copy
			if err := r.Loans.Delete(ctx, l.ID); err != nil && !isNotFound(err) {
				return err
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		if lc, ok := u.repo.(localCopy); ok {
			if err := lc.Forget(ctx, l.ID); err != nil {
				u.log.WithError(err).WithField("loan_id", l.ID).Warn("local copy not removed")
			}
		}
	}
	metrics.LoanOperations.WithLabelValues("delete").Inc()
	u.log.WithField("loan_id", l.ID).Info("loan deleted")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound)
}

func notFoundOr(err error) error {
	if isNotFound(err) {
		return domain.ErrNotFound
	}
	return err
}

func (u *Usecase) Overdue(ctx context.Context, ownerID string) ([]LoanDTO, error) {
	loans, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	now := u.now()
	overdue := domain.FilterOverdue(loans, now, Scope(ownerID))
	out := make([]LoanDTO, 0, len(overdue))
	for _, l := range overdue {
		out = append(out, toDTO(l, now))
	}
	return out, nil
}

func (u *Usecase) Penalty(ctx context.Context, loanID, ownerID string) (*PenaltyDTO, error) {
	l, err := u.load(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	return &PenaltyDTO{
		LoanID:       l.ID,
		DaysElapsed:  domain.DaysElapsed(*l, now),
		DailyPenalty: l.DailyPenalty,
		Penalty:      domain.CalculatePenalty(*l, now),
		IsOverdue:    domain.IsOverdue(*l, now),
		AsOf:         now,
	}, nil
}

func (u *Usecase) Report(ctx context.Context, ownerID string) (domain.Report, error) {
	loans, err := u.all(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.BuildReport(loans, u.now(), Scope(ownerID)), nil
}

func overdueLine(l domain.Loan, now time.Time) OverdueLine {
	return OverdueLine{
		ID:                    l.ID,
		FullName:              l.FullName,
		CPF:                   l.CPF,
		Phone:                 l.Phone,
		LoanAmount:            l.LoanAmount,
		LoanDate:              l.LoanDate,
		RemainingInstallments: l.RemainingInstallments,
		DaysOverdue:           domain.DaysElapsed(l, now),
		Penalty:               domain.CalculatePenalty(l, now),
	}
}

func (u *Usecase) FullReport(ctx context.Context, ownerID string) (*FullReport, error) {
	loans, err := u.scoped(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	rep := &FullReport{
		Summary:     domain.BuildReport(loans, now, ""),
		Loans:       make([]ReportLine, 0, len(loans)),
		Overdue:     make([]OverdueLine, 0),
		GeneratedAt: now,
	}
	for _, l := range loans {
		status := StatusActive
		switch {
		case l.IsSettled:
			status = StatusSettled
		case domain.IsOverdue(l, now):
			status = StatusOverdue
			rep.Overdue = append(rep.Overdue, overdueLine(l, now))
		}
		rep.Loans = append(rep.Loans, ReportLine{
			ID:             l.ID,
			FullName:       l.FullName,
			CPF:            l.CPF,
			LoanAmount:     l.LoanAmount,
			Installments:   strconv.Itoa(l.PaidInstallments) + "/" + strconv.Itoa(l.TotalInstallments),
			Status:         status,
			CurrentPenalty: domain.CalculatePenalty(l, now),
		})
	}

	if Scope(ownerID) == "" && u.users != nil {
		users, err := u.users.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		counts := &UserCounts{Total: len(users)}
		for _, usr := range users {
			if usr.IsBlocked {
				counts.Blocked++
			} else {
				counts.Active++
			}
		}
		rep.Users = counts
	}
	return rep, nil
}

func (u *Usecase) OverdueReport(ctx context.Context, ownerID string) ([]OverdueLine, error) {
	loans, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	now := u.now()
	overdue := domain.FilterOverdue(loans, now, Scope(ownerID))
	out := make([]OverdueLine, 0, len(overdue))
	for _, l := range overdue {
		out = append(out, overdueLine(l, now))
	}
	return out, nil
}
