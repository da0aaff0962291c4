// Package service реализует бизнес-логику учёта займов с ежедневным погашением.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/loanbook/internal/model"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, page model.Page) ([]model.Customer, int64, error)
	UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateLoan(ctx context.Context, loan model.Loan, schedule []model.Installment) (*model.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	ListLoans(ctx context.Context, page model.Page) ([]model.Loan, int64, error)
	ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Loan, error)
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status model.LoanStatus) (*model.Loan, error)

	ListInstallmentsByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Installment, error)
	ListDueInstallments(ctx context.Context, day time.Time) ([]model.InstallmentDetail, error)
	ListInstallments(ctx context.Context, filter model.InstallmentFilter, page model.Page) ([]model.InstallmentDetail, int64, error)
	CollectInstallment(ctx context.Context, id, collectorID uuid.UUID, notes string, now time.Time) (*model.CollectionResult, error)

	Summary(ctx context.Context, today time.Time) (*model.Summary, error)
	CollectorStats(ctx context.Context) ([]model.CollectorStats, error)
}

// Recorder учитывает доменные события для метрик.
type Recorder interface {
	LoanCreated()
	InstallmentCollected(loanCompleted bool)
}

type nopRecorder struct{}

func (nopRecorder) LoanCreated()               {}
func (nopRecorder) InstallmentCollected(bool) {}

// Service содержит бизнес-логику учёта клиентов, займов и платежей.
type Service struct {
	repo     Repository
	recorder Recorder
	now      func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием. recorder может быть nil.
func NewService(repo Repository, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Service{
		repo:     repo,
		recorder: recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

func newList[T any](items []T, total int64, page model.Page) *model.List[T] {
	if items == nil {
		items = []T{}
	}
	return &model.List[T]{
		Items:      items,
		Total:      total,
		Pagination: model.NewPagination(page, total),
	}
}
