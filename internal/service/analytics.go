package service

import (
	"context"

	"github.com/mmeshcher/loanbook/internal/amortization"
	"github.com/mmeshcher/loanbook/internal/model"
)

// Summary возвращает сводные показатели портфеля на сегодня.
func (s *Service) Summary(ctx context.Context) (*model.Summary, error) {
	return s.repo.Summary(ctx, amortization.TruncateDay(s.now()))
}

// CollectorStats возвращает показатели сборов по инкассаторам.
func (s *Service) CollectorStats(ctx context.Context) ([]model.CollectorStats, error) {
	stats, err := s.repo.CollectorStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []model.CollectorStats{}
	}
	return stats, nil
}
