package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/loanbook/internal/lifecycle"
	"github.com/mmeshcher/loanbook/internal/model"
)

const loanColumns = `id, customer_id, principal_amount, interest_rate, duration_in_days,
	start_date, end_date, daily_installment, total_amount, status, created_by, created_at, updated_at`

// CreateLoan сохраняет заём вместе с полным графиком платежей в одной транзакции: либо
// появляются и заём, и все его платежи, либо ничего.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan model.Loan, schedule []model.Installment) (*model.Loan, error) {
	var created *model.Loan

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO loans (id, customer_id, principal_amount, interest_rate, duration_in_days,
			                    start_date, end_date, daily_installment, total_amount, status, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING `+loanColumns,
			loan.ID, loan.CustomerID, loan.PrincipalAmount, loan.InterestRate, loan.DurationInDays,
			loan.StartDate, loan.EndDate, loan.DailyInstallment, loan.TotalAmount,
			string(loan.Status), loan.CreatedBy,
		)

		l, err := scanLoan(row)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrCustomerNotFound, loan.CustomerID)
			}
			return fmt.Errorf("insert loan: %w", err)
		}
		created = l

		batch := &pgx.Batch{}
		for _, inst := range schedule {
			batch.Queue(
				`INSERT INTO installments (id, loan_id, due_date, amount, collected, notes, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, false, '', $5, $6)`,
				inst.ID, inst.LoanID, inst.DueDate, inst.Amount, inst.CreatedAt, inst.UpdatedAt,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert installments: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetLoan возвращает заём по идентификатору.
func (r *PostgresRepository) GetLoan(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1`,
		id,
	)

	l, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}

	return l, nil
}

// ListLoans возвращает страницу займов, новые первыми, и общее число займов.
func (r *PostgresRepository) ListLoans(ctx context.Context, page model.Page) ([]model.Loan, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+`
		 FROM loans
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select loans: %w", err)
	}

	loans, err := collectLoans(rows)
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ListLoansByCustomer возвращает все займы клиента, новые первыми.
func (r *PostgresRepository) ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+`
		 FROM loans
		 WHERE customer_id = $1
		 ORDER BY created_at DESC, id`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select customer loans: %w", err)
	}

	return collectLoans(rows)
}

// UpdateLoanStatus вручную меняет статус займа. Строка займа блокируется, чтобы проверка
// перехода видела актуальный статус.
func (r *PostgresRepository) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status model.LoanStatus) (*model.Loan, error) {
	var updated *model.Loan

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM loans WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrLoanNotFound
			}
			return fmt.Errorf("lock loan: %w", err)
		}

		if err := lifecycle.ValidateTransition(model.LoanStatus(current), status); err != nil {
			return err
		}

		row := tx.QueryRow(ctx,
			`UPDATE loans SET status = $2, updated_at = now()
			 WHERE id = $1
			 RETURNING `+loanColumns,
			id, string(status),
		)

		l, err := scanLoan(row)
		if err != nil {
			return fmt.Errorf("update loan status: %w", err)
		}
		updated = l

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func collectLoans(rows pgx.Rows) ([]model.Loan, error) {
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return loans, nil
}

func scanLoan(row scanner) (*model.Loan, error) {
	var (
		l      model.Loan
		status string
	)
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.PrincipalAmount, &l.InterestRate, &l.DurationInDays,
		&l.StartDate, &l.EndDate, &l.DailyInstallment, &l.TotalAmount, &status,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = model.LoanStatus(status)
	return &l, nil
}
