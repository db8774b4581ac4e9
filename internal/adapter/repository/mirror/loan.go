// Package mirror keeps a local copy of the loan set next to the remote store.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"sort"

	loanDomain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LoanRepository writes to primary and mirrors into local. When primary fails
// the operation is served by local alone, and reads catch the primary up once
// it is back. The newer UpdatedAt wins.
type LoanRepository struct {
	primary loanDomain.Repository
	local   loanDomain.Repository
	log     logrus.FieldLogger
}

func NewLoanRepository(primary, local loanDomain.Repository, log logrus.FieldLogger) *LoanRepository {
	return &LoanRepository{primary: primary, local: local, log: log}
}

func (r *LoanRepository) fallback(op string, err error) {
	metrics.MirrorFallbacks.WithLabelValues(op).Inc()
	r.log.WithError(err).WithField("op", op).Warn("mirror: primary store failed, using local")
}

func (r *LoanRepository) mirrorErr(op string, err error) {
	if err != nil {
		r.log.WithError(err).WithField("op", op).Warn("mirror: local copy not updated")
	}
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	if err := r.primary.Create(ctx, l); err != nil {
		r.fallback("create", err)
		return r.local.Create(ctx, l)
	}
	r.mirrorErr("create", r.local.Create(ctx, l))
	return nil
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	if err := r.primary.Save(ctx, l); err != nil {
		r.fallback("save", err)
		return r.local.Save(ctx, l)
	}
	r.mirrorErr("save", r.local.Save(ctx, l))
	return nil
}

// GetByID prefers the primary row unless the local copy is newer. A loan
// that only exists locally is pushed to the primary once it answers again.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loanDomain.Loan, error) {
	l, err := r.primary.GetByID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		r.fallback("get", err)
	}
	local, lerr := r.local.GetByID(ctx, id)
	switch {
	case err == nil && (lerr != nil || !local.UpdatedAt.After(l.UpdatedAt)):
		return l, nil
	case lerr != nil:
		return nil, err
	case err == nil:
		r.push(ctx, "get", r.primary.Save, local)
	case errors.Is(err, gorm.ErrRecordNotFound):
		r.push(ctx, "get", r.primary.Create, local)
	}
	return local, nil
}

// List returns the primary rows merged with local rows the primary is missing
// or holds an older version of. Those rows are copied to the primary on the way.
func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	out, err := r.primary.List(ctx)
	if err != nil {
		r.fallback("list", err)
		return r.local.List(ctx)
	}
	merged, _, err := r.reconcile(ctx, out)
	if err != nil {
		r.mirrorErr("list", err)
		return out, nil
	}
	return merged, nil
}

// Sync copies rows written while the primary was down back to it and returns
// how many were copied.
func (r *LoanRepository) Sync(ctx context.Context) (int, error) {
	remote, err := r.primary.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list primary: %w", err)
	}
	_, n, err := r.reconcile(ctx, remote)
	return n, err
}

func (r *LoanRepository) reconcile(ctx context.Context, remote []loanDomain.Loan) ([]loanDomain.Loan, int, error) {
	local, err := r.local.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list local: %w", err)
	}
	idx := make(map[string]int, len(remote))
	for i, l := range remote {
		idx[l.ID] = i
	}
	out := remote
	copied := 0
	for i := range local {
		l := &local[i]
		at, ok := idx[l.ID]
		switch {
		case !ok:
			out = append(out, *l)
			if r.push(ctx, "list", r.primary.Create, l) {
				copied++
			}
		case l.UpdatedAt.After(out[at].UpdatedAt):
			out[at] = *l
			if r.push(ctx, "list", r.primary.Save, l) {
				copied++
			}
		}
	}
	if len(out) != len(remote) {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		})
	}
	if copied > 0 {
		r.log.WithField("rows", copied).Info("mirror: local rows copied to primary")
	}
	return out, copied, nil
}

func (r *LoanRepository) push(ctx context.Context, op string, write func(context.Context, *loanDomain.Loan) error, l *loanDomain.Loan) bool {
	if err := write(ctx, l); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{"op": op, "loan_id": l.ID}).Warn("mirror: primary not caught up")
		return false
	}
	metrics.MirrorResyncs.Inc()
	return true
}

// Forget drops the local copy of id.
func (r *LoanRepository) Forget(ctx context.Context, id string) error {
	if err := r.local.Delete(ctx, id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	perr := r.primary.Delete(ctx, id)
	if perr != nil && !errors.Is(perr, gorm.ErrRecordNotFound) {
		r.fallback("delete", perr)
	}
	lerr := r.local.Delete(ctx, id)
	if perr == nil {
		if lerr != nil && !errors.Is(lerr, gorm.ErrRecordNotFound) {
			r.mirrorErr("delete", lerr)
		}
		return nil
	}
	return lerr
}
