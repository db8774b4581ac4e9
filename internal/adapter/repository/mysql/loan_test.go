package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoanRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan("admin")
	require.NoError(t, repo.Create(ctx, l))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.FullName, got.FullName)
	assert.True(t, decimal.NewFromInt(1000).Equal(got.LoanAmount), got.LoanAmount.String())
	assert.True(t, decimal.NewFromInt(10).Equal(got.DailyPenalty))
	assert.Equal(t, 8, got.RemainingInstallments)
	assert.Equal(t, 2024, got.LoanDate.Year())
	assert.Equal(t, "admin", got.CreatedBy)
}

func TestLoanRepository_GetByID_NotFound(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	_, err = repo.GetByIDForUpdate(context.Background(), "missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLoanRepository_SaveAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	a, b := makeLoan("admin"), makeLoan("u1")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	a.IsSettled = true
	a.PaidInstallments = a.TotalInstallments
	require.NoError(t, repo.Save(ctx, a))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := repo.GetByIDForUpdate(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSettled)
	assert.Equal(t, 10, got.PaidInstallments)
}

func TestLoanRepository_Delete(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	l := makeLoan("admin")
	require.NoError(t, repo.Create(ctx, l))
	require.NoError(t, repo.Delete(ctx, l.ID))

	_, err := repo.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, l.ID), gorm.ErrRecordNotFound)
}
