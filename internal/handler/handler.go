// Package handler содержит HTTP-обработчики API сервиса учёта займов.
package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/loanbook/internal/middleware"
	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, in service.RegisterInput) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)

	CreateCustomer(ctx context.Context, createdBy uuid.UUID, in service.CustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, page model.Page) (*model.List[model.Customer], error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, in service.CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateLoan(ctx context.Context, createdBy uuid.UUID, in service.LoanInput) (*model.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	ListLoans(ctx context.Context, page model.Page) (*model.List[model.Loan], error)
	ListLoansByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Loan, error)
	UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) (*model.Loan, error)

	ListInstallmentsByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Installment, error)
	ListDueInstallments(ctx context.Context) ([]model.InstallmentDetail, error)
	InstallmentHistory(ctx context.Context, filter model.InstallmentFilter, page model.Page) (*model.List[model.InstallmentDetail], error)
	CollectInstallment(ctx context.Context, id, collectorID uuid.UUID, notes string) (*model.CollectionResult, error)

	Summary(ctx context.Context) (*model.Summary, error)
	CollectorStats(ctx context.Context) ([]model.CollectorStats, error)
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        http.Handler
	debug          bool
}

// Option настраивает Handler.
type Option func(*Handler)

// WithMetrics публикует метрики Prometheus на /metrics.
func WithMetrics(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithDebug включает подробные сообщения о внутренних ошибках в ответах.
func WithDebug(debug bool) Option {
	return func(h *Handler) { h.debug = debug }
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, opts ...Option) *Handler {
	h := &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	ident, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.fail(w, http.StatusUnauthorized, "not authorized")
	}
	return ident, ok
}
