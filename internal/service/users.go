package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/repository"
	"github.com/mmeshcher/loanbook/internal/validation"
)

// ErrInvalidCredentials возвращается при неверной паре почта/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	minPasswordLen = 6
	// bcrypt учитывает не больше 72 байт пароля.
	maxPasswordLen = 72
)

// RegisterInput содержит данные для регистрации пользователя.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUser регистрирует нового пользователя. Первый пользователь системы становится
// администратором, остальные получают роль инкассатора.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	verr := validation.Errors{}
	verr.Required("name", in.Name)
	verr.MaxLen("name", in.Name, 100)
	verr.Required("email", in.Email)
	verr.Email("email", in.Email)
	switch {
	case len(in.Password) < minPasswordLen:
		verr["password"] = "too_short"
	case len(in.Password) > maxPasswordLen:
		verr["password"] = "too_long"
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.CreateUser(ctx, model.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleCollector,
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// AuthenticateUser проверяет почту и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
