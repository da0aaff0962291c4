package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/loanbook/internal/lifecycle"
	"github.com/mmeshcher/loanbook/internal/model"
)

const installmentColumns = `i.id, i.loan_id, i.due_date, i.amount, i.collected, i.collected_at,
	i.collected_by, i.notes, i.created_at, i.updated_at`

const installmentDetailColumns = installmentColumns + `,
	l.status, l.daily_installment, c.id, c.name, c.phone, c.street, c.city, c.state, c.postal_code,
	COALESCE(u.name, '')`

const installmentDetailFrom = `
	FROM installments i
	JOIN loans l ON l.id = i.loan_id
	JOIN customers c ON c.id = l.customer_id
	LEFT JOIN users u ON u.id = i.collected_by`

// ListInstallmentsByLoan возвращает график платежей займа по возрастанию даты.
func (r *PostgresRepository) ListInstallmentsByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Installment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+installmentColumns+`
		 FROM installments i
		 WHERE i.loan_id = $1
		 ORDER BY i.due_date`,
		loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("select installments: %w", err)
	}
	defer rows.Close()

	var res []model.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		res = append(res, *inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListDueInstallments возвращает несобранные платежи со сроком в указанный день.
func (r *PostgresRepository) ListDueInstallments(ctx context.Context, day time.Time) ([]model.InstallmentDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+installmentDetailColumns+installmentDetailFrom+`
		 WHERE i.due_date = $1 AND NOT i.collected
		 ORDER BY i.due_date, c.name, i.id`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("select due installments: %w", err)
	}

	return collectInstallmentDetails(rows)
}

// ListInstallments возвращает страницу истории платежей по фильтру, поздние сроки первыми,
// и общее число подходящих платежей.
func (r *PostgresRepository) ListInstallments(ctx context.Context, filter model.InstallmentFilter, page model.Page) ([]model.InstallmentDetail, int64, error) {
	where, args := installmentFilterClause(filter)

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM installments i`+where,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count installments: %w", err)
	}

	limitArg := len(args) + 1
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx,
		`SELECT `+installmentDetailColumns+installmentDetailFrom+where+
			fmt.Sprintf(` ORDER BY i.due_date DESC, i.id LIMIT $%d OFFSET $%d`, limitArg, limitArg+1),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select installments: %w", err)
	}

	res, err := collectInstallmentDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return res, total, nil
}

func installmentFilterClause(filter model.InstallmentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Collected != nil {
		add("i.collected = $%d", *filter.Collected)
	}
	if filter.LoanID != nil {
		add("i.loan_id = $%d", *filter.LoanID)
	}
	if filter.From != nil {
		add("i.due_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("i.due_date <= $%d", *filter.To)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// CollectInstallment отмечает платёж собранным и, если он был последним несобранным по
// активному займу, переводит заём в completed.
//
// Строка займа блокируется до изменения платежа, поэтому приёмы платежей одного займа
// выполняются последовательно: пересчёт остатка видит все ранее зафиксированные приёмы, и
// ровно один из них наблюдает нулевой остаток.
func (r *PostgresRepository) CollectInstallment(ctx context.Context, id, collectorID uuid.UUID, notes string, now time.Time) (*model.CollectionResult, error) {
	var res model.CollectionResult

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var loanID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT loan_id FROM installments WHERE id = $1`, id).Scan(&loanID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInstallmentNotFound
			}
			return fmt.Errorf("select installment: %w", err)
		}

		var loanStatus string
		err = tx.QueryRow(ctx, `SELECT status FROM loans WHERE id = $1 FOR UPDATE`, loanID).Scan(&loanStatus)
		if err != nil {
			return fmt.Errorf("lock loan: %w", err)
		}

		row := tx.QueryRow(ctx,
			`UPDATE installments i
			 SET collected = true, collected_at = $2, collected_by = $3, notes = $4, updated_at = $2
			 WHERE i.id = $1 AND NOT i.collected
			 RETURNING `+installmentColumns,
			id, now, collectorID, notes,
		)

		inst, err := scanInstallment(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAlreadyCollected
			}
			return fmt.Errorf("collect installment: %w", err)
		}
		res.Installment = *inst

		var remaining int64
		err = tx.QueryRow(ctx,
			`SELECT count(*) FROM installments WHERE loan_id = $1 AND NOT collected`,
			loanID,
		).Scan(&remaining)
		if err != nil {
			return fmt.Errorf("count pending installments: %w", err)
		}

		if !lifecycle.AutoCompletes(model.LoanStatus(loanStatus), remaining) {
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE loans SET status = $2, updated_at = $3 WHERE id = $1`,
			loanID, string(model.LoanStatusCompleted), now,
		)
		if err != nil {
			return fmt.Errorf("complete loan: %w", err)
		}
		res.LoanCompleted = true

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func collectInstallmentDetails(rows pgx.Rows) ([]model.InstallmentDetail, error) {
	defer rows.Close()

	var res []model.InstallmentDetail
	for rows.Next() {
		var (
			d          model.InstallmentDetail
			loanStatus string
		)
		err := rows.Scan(
			&d.ID, &d.LoanID, &d.DueDate, &d.Amount, &d.Collected, &d.CollectedAt,
			&d.CollectedBy, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&loanStatus, &d.DailyInstallment, &d.CustomerID, &d.CustomerName, &d.CustomerPhone,
			&d.CustomerAddress.Street, &d.CustomerAddress.City, &d.CustomerAddress.State,
			&d.CustomerAddress.PostalCode, &d.CollectorName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		d.LoanStatus = model.LoanStatus(loanStatus)
		res = append(res, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func scanInstallment(row scanner) (*model.Installment, error) {
	var inst model.Installment
	err := row.Scan(
		&inst.ID, &inst.LoanID, &inst.DueDate, &inst.Amount, &inst.Collected, &inst.CollectedAt,
		&inst.CollectedBy, &inst.Notes, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}
