package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/loanbook/internal/amortization"
	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/validation"
)

const maxNotesLen = 500

// ListInstallmentsByLoan возвращает график платежей существующего займа.
func (s *Service) ListInstallmentsByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Installment, error) {
	if _, err := s.repo.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListInstallmentsByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Installment{}
	}
	return items, nil
}

// ListDueInstallments возвращает несобранные платежи со сроком сегодня.
func (s *Service) ListDueInstallments(ctx context.Context) ([]model.InstallmentDetail, error) {
	items, err := s.repo.ListDueInstallments(ctx, amortization.TruncateDay(s.now()))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.InstallmentDetail{}
	}
	return items, nil
}

// InstallmentHistory возвращает страницу истории платежей по фильтру.
func (s *Service) InstallmentHistory(ctx context.Context, filter model.InstallmentFilter, page model.Page) (*model.List[model.InstallmentDetail], error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, validation.Errors{"startDate": "after_end_date"}
	}

	items, total, err := s.repo.ListInstallments(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return newList(items, total, page), nil
}

// CollectInstallment отмечает платёж собранным инкассатором collectorID. Повторный приём
// того же платежа завершается ошибкой.
func (s *Service) CollectInstallment(ctx context.Context, id, collectorID uuid.UUID, notes string) (*model.CollectionResult, error) {
	notes = strings.TrimSpace(notes)

	verr := validation.Errors{}
	verr.MaxLen("notes", notes, maxNotesLen)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	res, err := s.repo.CollectInstallment(ctx, id, collectorID, notes, s.now())
	if err != nil {
		return nil, err
	}

	s.recorder.InstallmentCollected(res.LoanCompleted)

	return res, nil
}
