package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/validation"
)

// CustomerInput содержит редактируемые поля клиента.
type CustomerInput struct {
	Name    string
	Phone   string
	Address model.Address
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.State = strings.TrimSpace(in.Address.State)
	in.Address.PostalCode = strings.TrimSpace(in.Address.PostalCode)
}

func (in CustomerInput) validate() error {
	verr := validation.Errors{}
	verr.Required("name", in.Name)
	verr.MaxLen("name", in.Name, 100)
	verr.Required("phone", in.Phone)
	verr.Phone("phone", in.Phone)
	verr.Required("address.street", in.Address.Street)
	verr.Required("address.city", in.Address.City)
	verr.Required("address.state", in.Address.State)
	verr.Required("address.postalCode", in.Address.PostalCode)
	return verr.Err()
}

// CreateCustomer создаёт клиента от имени пользователя createdBy.
func (s *Service) CreateCustomer(ctx context.Context, createdBy uuid.UUID, in CustomerInput) (*model.Customer, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	return s.repo.CreateCustomer(ctx, model.Customer{
		ID:        uuid.New(),
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedBy: createdBy,
	})
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// ListCustomers возвращает страницу клиентов.
func (s *Service) ListCustomers(ctx context.Context, page model.Page) (*model.List[model.Customer], error) {
	items, total, err := s.repo.ListCustomers(ctx, page)
	if err != nil {
		return nil, err
	}
	return newList(items, total, page), nil
}

// UpdateCustomer заменяет данные клиента.
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, in CustomerInput) (*model.Customer, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	return s.repo.UpdateCustomer(ctx, model.Customer{
		ID:      id,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	})
}

// DeleteCustomer удаляет клиента без займов.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCustomer(ctx, id)
}
