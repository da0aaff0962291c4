package amortization

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/loanbook/internal/model"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		days      int
		wantTotal string
		wantDaily string
	}{
		{
			name:      "reference loan",
			principal: "1000",
			rate:      "12",
			days:      100,
			wantTotal: "1032.88",
			wantDaily: "10.33",
		},
		{
			name:      "zero interest",
			principal: "3000",
			rate:      "0",
			days:      30,
			wantTotal: "3000",
			wantDaily: "100",
		},
		{
			name:      "single day",
			principal: "500",
			rate:      "36.5",
			days:      1,
			wantTotal: "500.5",
			wantDaily: "500.5",
		},
		{
			name:      "full year",
			principal: "10000",
			rate:      "10",
			days:      365,
			wantTotal: "11000",
			wantDaily: "30.14",
		},
		{
			name:      "half cent rounds up",
			principal: "0.01",
			rate:      "0",
			days:      2,
			wantTotal: "0.01",
			wantDaily: "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := Calculate(
				decimal.RequireFromString(tt.principal),
				decimal.RequireFromString(tt.rate),
				tt.days,
			)
			assert.True(t, terms.TotalAmount.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total = %s, want %s", terms.TotalAmount, tt.wantTotal)
			assert.True(t, terms.DailyInstallment.Equal(decimal.RequireFromString(tt.wantDaily)),
				"daily = %s, want %s", terms.DailyInstallment, tt.wantDaily)
		})
	}
}

func TestCalculateProperties(t *testing.T) {
	principals := []string{"0.5", "1", "99.99", "1000", "12345.67", "1000000"}
	rates := []string{"0", "0.5", "7.25", "12", "36", "120"}
	durations := []int{1, 2, 7, 30, 100, 365, 1000}

	halfCent := decimal.RequireFromString("0.005")

	for _, p := range principals {
		for _, r := range rates {
			for _, d := range durations {
				principal := decimal.RequireFromString(p)
				terms := Calculate(principal, decimal.RequireFromString(r), d)

				require.True(t, terms.TotalAmount.GreaterThanOrEqual(principal.Round(2)),
					"P=%s R=%s D=%d: total %s below principal", p, r, d, terms.TotalAmount)

				days := decimal.NewFromInt(int64(d))
				drift := terms.DailyInstallment.Mul(days).Sub(terms.TotalAmount).Abs()
				require.True(t, drift.LessThanOrEqual(halfCent.Mul(days)),
					"P=%s R=%s D=%d: daily*D drifts from total by %s", p, r, d, drift)

				require.True(t, terms.TotalAmount.Equal(terms.TotalAmount.Round(2)))
				require.True(t, terms.DailyInstallment.Equal(terms.DailyInstallment.Round(2)))
			}
		}
	}
}

func TestGenerateSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)
	loan := model.Loan{
		ID:               uuid.New(),
		StartDate:        time.Date(2026, 2, 26, 18, 30, 0, 0, time.UTC),
		DurationInDays:   5,
		DailyInstallment: decimal.RequireFromString("10.33"),
	}

	schedule := GenerateSchedule(loan, now)
	require.Len(t, schedule, 5)

	wantDates := []time.Time{
		time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	seen := make(map[uuid.UUID]struct{})
	for i, inst := range schedule {
		assert.Equal(t, wantDates[i], inst.DueDate)
		assert.Equal(t, loan.ID, inst.LoanID)
		assert.True(t, inst.Amount.Equal(loan.DailyInstallment))
		assert.False(t, inst.Collected)
		assert.Nil(t, inst.CollectedAt)
		assert.Nil(t, inst.CollectedBy)
		assert.Equal(t, now, inst.CreatedAt)

		_, dup := seen[inst.ID]
		assert.False(t, dup, "installment id reused")
		seen[inst.ID] = struct{}{}
	}
}

func TestGenerateScheduleContiguous(t *testing.T) {
	loan := model.Loan{
		ID:               uuid.New(),
		StartDate:        time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC),
		DurationInDays:   400,
		DailyInstallment: decimal.NewFromInt(1),
	}

	schedule := GenerateSchedule(loan, time.Now())
	require.Len(t, schedule, loan.DurationInDays)

	assert.Equal(t, loan.StartDate, schedule[0].DueDate)
	for i := 1; i < len(schedule); i++ {
		assert.Equal(t, schedule[i-1].DueDate.AddDate(0, 0, 1), schedule[i].DueDate, "gap at %d", i)
	}
	assert.Equal(t, EndDate(loan.StartDate, loan.DurationInDays), schedule[len(schedule)-1].DueDate.AddDate(0, 0, 1))
}

func TestGenerateScheduleEmpty(t *testing.T) {
	assert.Nil(t, GenerateSchedule(model.Loan{DurationInDays: 0}, time.Now()))
}
