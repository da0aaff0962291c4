package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/loanbook/internal/model"
)

const customerColumns = `id, name, phone, street, city, state, postal_code, created_by, created_at, updated_at`

// CreateCustomer сохраняет нового клиента.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customers (id, name, phone, street, city, state, postal_code, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode,
		c.CreatedBy,
	)

	created, err := scanCustomer(row)
	if err != nil {
		if isUniqueViolation(err, "customers_phone_key") {
			return nil, fmt.Errorf("%w: %s", ErrPhoneTaken, c.Phone)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return created, nil
}

// GetCustomer возвращает клиента по идентификатору.
func (r *PostgresRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`,
		id,
	)

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return c, nil
}

// ListCustomers возвращает страницу клиентов, новые первыми, и общее число клиентов.
func (r *PostgresRepository) ListCustomers(ctx context.Context, page model.Page) ([]model.Customer, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+`
		 FROM customers
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, page.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return customers, total, nil
}

// UpdateCustomer обновляет данные клиента.
func (r *PostgresRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE customers
		 SET name = $2, phone = $3, street = $4, city = $5, state = $6, postal_code = $7,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+customerColumns,
		c.ID, c.Name, c.Phone,
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode,
	)

	updated, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		if isUniqueViolation(err, "customers_phone_key") {
			return nil, fmt.Errorf("%w: %s", ErrPhoneTaken, c.Phone)
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}

	return updated, nil
}

// DeleteCustomer удаляет клиента. Клиента с займами удалить нельзя.
func (r *PostgresRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerHasLoans
		}
		return fmt.Errorf("delete customer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

func scanCustomer(row scanner) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Phone,
		&c.Address.Street, &c.Address.City, &c.Address.State, &c.Address.PostalCode,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
