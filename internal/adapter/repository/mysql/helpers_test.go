package mysql

import (
	"testing"
	"time"

	loanDomain "credconecta-backend/internal/domain/loan"
	infradb "credconecta-backend/internal/infrastructure/db"
	"credconecta-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a single-connection in-memory sqlite DB with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infradb.OpenSQLite(":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := infradb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func makeLoan(owner string) *loanDomain.Loan {
	now := time.Now().UTC().Truncate(time.Second)
	return &loanDomain.Loan{
		ID:                    id.NewID32(),
		FullName:              "Maria Silva",
		CPF:                   "123.456.789-00",
		Phone:                 "11999990000",
		LoanDate:              time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		LoanAmount:            decimal.NewFromInt(1000),
		TotalInstallments:     10,
		PaidInstallments:      2,
		RemainingInstallments: 8,
		DailyPenalty:          decimal.NewFromInt(10),
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             owner,
	}
}
