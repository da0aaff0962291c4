package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mmeshcher/loanbook/internal/model"
)

// Summary возвращает сводные показатели портфеля на указанный день.
func (r *PostgresRepository) Summary(ctx context.Context, today time.Time) (*model.Summary, error) {
	s := model.Summary{
		LoansByStatus: make(map[model.LoanStatus]int64, len(model.LoanStatuses)),
	}
	for _, st := range model.LoanStatuses {
		s.LoansByStatus[st] = 0
	}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&s.Customers); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT status, count(*) FROM loans GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count loans by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan loan status count: %w", err)
		}
		s.LoansByStatus[model.LoanStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0),
		        COALESCE(SUM(amount) FILTER (WHERE collected), 0),
		        COALESCE(SUM(amount) FILTER (WHERE NOT collected), 0),
		        count(*) FILTER (WHERE due_date = $1 AND NOT collected),
		        count(*) FILTER (WHERE collected AND collected_at >= $2 AND collected_at < $3)
		 FROM installments`,
		today, today, today.AddDate(0, 0, 1),
	).Scan(&s.ExpectedAmount, &s.CollectedAmount, &s.Outstanding, &s.DueToday, &s.CollectedToday)
	if err != nil {
		return nil, fmt.Errorf("sum installments: %w", err)
	}

	return &s, nil
}

// CollectorStats возвращает показатели сборов по каждому инкассатору, крупнейшие первыми.
func (r *PostgresRepository) CollectorStats(ctx context.Context) ([]model.CollectorStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, count(i.id), COALESCE(SUM(i.amount), 0)
		 FROM users u
		 JOIN installments i ON i.collected_by = u.id AND i.collected
		 GROUP BY u.id, u.name
		 ORDER BY 4 DESC, u.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select collector stats: %w", err)
	}
	defer rows.Close()

	var res []model.CollectorStats
	for rows.Next() {
		var cs model.CollectorStats
		if err := rows.Scan(&cs.UserID, &cs.Name, &cs.Collected, &cs.CollectedAmount); err != nil {
			return nil, fmt.Errorf("scan collector stats: %w", err)
		}
		res = append(res, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}
