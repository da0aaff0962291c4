// Package amortization рассчитывает условия займа с ежедневным погашением и строит
// график платежей.
package amortization

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/loanbook/internal/model"
)

var (
	daysInYear = decimal.NewFromInt(365)
	hundred    = decimal.NewFromInt(100)
)

// Terms содержит производные условия займа.
type Terms struct {
	DailyInstallment decimal.Decimal
	TotalAmount      decimal.Decimal
}

// Calculate рассчитывает сумму к возврату и ежедневный платёж по простой ставке.
//
//	dailyRate        = rate / 100 / 365
//	totalAmount      = principal + principal * dailyRate * days
//	dailyInstallment = totalAmount / days
//
// Оба результата округляются до копеек; платёж считается от неокруглённой суммы.
// durationInDays должен быть положительным, проверка остаётся за вызывающим.
func Calculate(principal, annualRatePercent decimal.Decimal, durationInDays int) Terms {
	days := decimal.NewFromInt(int64(durationInDays))

	dailyRate := annualRatePercent.Div(hundred).Div(daysInYear)
	totalInterest := principal.Mul(dailyRate).Mul(days)
	total := principal.Add(totalInterest)

	return Terms{
		DailyInstallment: total.Div(days).Round(2),
		TotalAmount:      total.Round(2),
	}
}

// EndDate возвращает дату окончания займа.
func EndDate(start time.Time, durationInDays int) time.Time {
	return start.AddDate(0, 0, durationInDays)
}

// TruncateDay отбрасывает время суток, оставляя календарную дату в UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateSchedule строит график из durationInDays ежедневных платежей, начиная с даты
// выдачи займа.
func GenerateSchedule(loan model.Loan, now time.Time) []model.Installment {
	if loan.DurationInDays <= 0 {
		return nil
	}

	start := TruncateDay(loan.StartDate)
	schedule := make([]model.Installment, 0, loan.DurationInDays)

	for i := 0; i < loan.DurationInDays; i++ {
		schedule = append(schedule, model.Installment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			DueDate:   start.AddDate(0, 0, i),
			Amount:    loan.DailyInstallment,
			Collected: false,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return schedule
}
