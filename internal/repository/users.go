package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/loanbook/internal/model"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// userRegistrationLock сериализует регистрации, чтобы администратором стал ровно один
// первый пользователь.
const userRegistrationLock int64 = 0x6c6f616e75736572

// CreateUser создаёт нового пользователя. Первый пользователь системы получает роль
// администратора независимо от запрошенной.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	var created *model.User
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userRegistrationLock); err != nil {
			return fmt.Errorf("lock user registration: %w", err)
		}

		row := tx.QueryRow(ctx,
			`INSERT INTO users (id, name, email, password_hash, role)
			 VALUES ($1, $2, $3, $4,
			         CASE WHEN EXISTS (SELECT 1 FROM users) THEN $5 ELSE 'admin' END)
			 RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role),
		)

		var err error
		created, err = scanUser(row)
		return err
	})
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

// GetUserByEmail возвращает пользователя по адресу почты без учёта регистра.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		email,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
