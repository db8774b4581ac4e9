package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestCalculatePenalty(t *testing.T) {
	base := date(2024, 1, 1)

	tests := []struct {
		name string
		loan Loan
		now  time.Time
		want string
	}{
		{
			name: "ten days late",
			loan: Loan{LoanDate: base, DailyPenalty: decimal.NewFromInt(30)},
			now:  date(2024, 1, 11),
			want: "300",
		},
		{
			name: "settled is always zero",
			loan: Loan{LoanDate: base, DailyPenalty: decimal.NewFromInt(30), IsSettled: true},
			now:  date(2025, 1, 1),
			want: "0",
		},
		{
			name: "future loan date clamps to zero",
			loan: Loan{LoanDate: date(2024, 2, 1), DailyPenalty: decimal.NewFromInt(30)},
			now:  base,
			want: "0",
		},
		{
			name: "partial day does not count",
			loan: Loan{LoanDate: base, DailyPenalty: decimal.NewFromInt(30)},
			now:  base.Add(23 * time.Hour),
			want: "0",
		},
		{
			name: "truncates to whole days",
			loan: Loan{LoanDate: base, DailyPenalty: decimal.RequireFromString("12.35")},
			now:  base.Add(3*24*time.Hour + 20*time.Hour),
			want: "37.05",
		},
		{
			name: "same instant",
			loan: Loan{LoanDate: base, DailyPenalty: decimal.NewFromInt(30)},
			now:  base,
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePenalty(tt.loan, tt.now)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestCalculatePenalty_ScalesWithDays(t *testing.T) {
	base := date(2024, 3, 1)
	rate := decimal.RequireFromString("0.10")
	l := Loan{LoanDate: base, DailyPenalty: rate}
	for d := int64(1); d <= 400; d++ {
		now := base.Add(time.Duration(d) * 24 * time.Hour)
		want := rate.Mul(decimal.NewFromInt(d))
		if got := CalculatePenalty(l, now); !got.Equal(want) {
			t.Fatalf("day %d: got %s want %s", d, got, want)
		}
	}
}

func TestDaysElapsed_FloorsNegative(t *testing.T) {
	base := date(2024, 1, 10)
	l := Loan{LoanDate: base}
	assert.Equal(t, int64(-1), DaysElapsed(l, base.Add(-time.Hour)))
	assert.Equal(t, int64(0), DaysElapsed(l, base.Add(time.Hour)))
	assert.Equal(t, int64(2), DaysElapsed(l, base.Add(49*time.Hour)))
}

func TestIsOverdue(t *testing.T) {
	base := date(2024, 1, 1)
	now := date(2024, 1, 2)

	tests := []struct {
		name string
		loan Loan
		want bool
	}{
		{"unsettled past with remaining", Loan{LoanDate: base, RemainingInstallments: 2}, true},
		{"settled", Loan{LoanDate: base, RemainingInstallments: 2, IsSettled: true}, false},
		{"nothing remaining", Loan{LoanDate: base, RemainingInstallments: 0}, false},
		{"loan date in the future", Loan{LoanDate: date(2024, 1, 5), RemainingInstallments: 2}, false},
		{"loan date equals now", Loan{LoanDate: now, RemainingInstallments: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.loan, now))
		})
	}
}

func TestFilterOverdue(t *testing.T) {
	now := date(2024, 6, 1)
	loans := []Loan{
		{ID: "a", CreatedBy: "u1", LoanDate: date(2024, 5, 1), RemainingInstallments: 3},
		{ID: "b", CreatedBy: "u2", LoanDate: date(2024, 5, 1), RemainingInstallments: 3},
		{ID: "c", CreatedBy: "u1", LoanDate: date(2024, 5, 1), IsSettled: true},
		{ID: "d", CreatedBy: "u1", LoanDate: date(2024, 7, 1), RemainingInstallments: 3},
		{ID: "e", CreatedBy: AdminOwnerID, LoanDate: date(2024, 4, 1), RemainingInstallments: 1},
	}

	t.Run("unscoped", func(t *testing.T) {
		got := FilterOverdue(loans, now, "")
		assert.Equal(t, []string{"a", "b", "e"}, ids(got))
	})
	t.Run("scoped to owner", func(t *testing.T) {
		got := FilterOverdue(loans, now, "u1")
		assert.Equal(t, []string{"a"}, ids(got))
	})
	t.Run("unknown owner", func(t *testing.T) {
		assert.Empty(t, FilterOverdue(loans, now, "nobody"))
	})
}

func ids(loans []Loan) []string {
	out := make([]string, 0, len(loans))
	for _, l := range loans {
		out = append(out, l.ID)
	}
	return out
}
