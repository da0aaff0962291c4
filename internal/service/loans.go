package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/loanbook/internal/amortization"
	"github.com/mmeshcher/loanbook/internal/lifecycle"
	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/validation"
)

const (
	maxLoanDays = 3650

	moneyScale = 2
	rateScale  = 3
)

// Границы соответствуют колонкам NUMERIC(14,2) и NUMERIC(7,3).
var (
	maxMoney = decimal.New(1, 12)
	maxRate  = decimal.NewFromInt(10000)
)

// LoanInput содержит условия нового займа. Нулевой StartDate означает сегодняшний день.
type LoanInput struct {
	CustomerID      uuid.UUID
	PrincipalAmount decimal.Decimal
	InterestRate    decimal.Decimal
	DurationInDays  int
	StartDate       time.Time
}

// CreateLoan выдаёт заём клиенту: рассчитывает условия, строит график платежей и сохраняет
// заём вместе с графиком.
func (s *Service) CreateLoan(ctx context.Context, createdBy uuid.UUID, in LoanInput) (*model.Loan, error) {
	verr := validation.Errors{}
	if in.CustomerID == uuid.Nil {
		verr["customerId"] = "required"
	}
	verr.Positive("principalAmount", in.PrincipalAmount)
	verr.MaxScale("principalAmount", in.PrincipalAmount, moneyScale)
	verr.LessThan("principalAmount", in.PrincipalAmount, maxMoney)
	verr.NonNegative("interestRate", in.InterestRate)
	verr.MaxScale("interestRate", in.InterestRate, rateScale)
	verr.LessThan("interestRate", in.InterestRate, maxRate)
	verr.Range("durationInDays", in.DurationInDays, 1, maxLoanDays)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	now := s.now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}
	start = amortization.TruncateDay(start)

	terms := amortization.Calculate(in.PrincipalAmount, in.InterestRate, in.DurationInDays)
	if terms.TotalAmount.GreaterThanOrEqual(maxMoney) {
		return nil, validation.Errors{"totalAmount": "too_large"}
	}

	loan := model.Loan{
		ID:               uuid.New(),
		CustomerID:       in.CustomerID,
		PrincipalAmount:  in.PrincipalAmount,
		InterestRate:     in.InterestRate,
		DurationInDays:   in.DurationInDays,
		StartDate:        start,
		EndDate:          amortization.EndDate(start, in.DurationInDays),
		DailyInstallment: terms.DailyInstallment,
		TotalAmount:      terms.TotalAmount,
		Status:           model.LoanStatusActive,
		CreatedBy:        createdBy,
	}

	created, err := s.repo.CreateLoan(ctx, loan, amortization.GenerateSchedule(loan, now))
	if err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.recorder.LoanCreated()

	return created, nil
}

// GetLoan возвращает заём по идентификатору.
func (s *Service) GetLoan(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

// ListLoans возвращает страницу займов.
func (s *Service) ListLoans(ctx context.Context, page model.Page) (*model.List[model.Loan], error) {
	items, total, err := s.repo.ListLoans(ctx, page)
	if err != nil {
		return nil, err
	}
	return newList(items, total, page), nil
}

// ListLoansByCustomer возвращает займы существующего клиента.
func (s *Service) ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Loan, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListLoansByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []model.Loan{}
	}
	return loans, nil
}

// UpdateLoanStatus вручную меняет статус займа. Значение вне перечисления отклоняется
// до обращения к хранилищу.
func (s *Service) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) (*model.Loan, error) {
	st, err := lifecycle.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateLoanStatus(ctx, id, st)
}
