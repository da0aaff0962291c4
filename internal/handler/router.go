package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/loanbook/internal/middleware"
	"github.com/mmeshcher/loanbook/internal/model"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API is running..."))
	})

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	adminOnly := custommiddleware.RequireRole(model.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/auth/me", h.Me)

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", h.ListCustomers)
				r.Post("/", h.CreateCustomer)
				r.Get("/{id}", h.GetCustomer)
				r.With(adminOnly).Put("/{id}", h.UpdateCustomer)
				r.With(adminOnly).Delete("/{id}", h.DeleteCustomer)
			})

			r.Route("/loans", func(r chi.Router) {
				r.Get("/", h.ListLoans)
				r.Post("/", h.CreateLoan)
				r.Get("/customer/{customerId}", h.ListCustomerLoans)
				r.Get("/{id}", h.GetLoan)
				r.With(adminOnly).Put("/{id}", h.UpdateLoanStatus)
			})

			r.Route("/installments", func(r chi.Router) {
				r.Get("/loan/{loanId}", h.ListLoanInstallments)
				r.Get("/due", h.ListDueInstallments)
				r.Get("/history", h.InstallmentHistory)
				r.Post("/collect/{id}", h.CollectInstallment)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/summary", h.Summary)
				r.Get("/collectors", h.CollectorStats)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, http.StatusNotFound, "Route not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.fail(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
