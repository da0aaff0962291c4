package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/service"
)

type loanRequest struct {
	CustomerID      uuid.UUID       `json:"customerId"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	DurationInDays  int             `json:"durationInDays"`
	StartDate       string          `json:"startDate"`
}

type loanStatusRequest struct {
	Status string `json:"status"`
}

type loanResponse struct {
	ID               string  `json:"id"`
	CustomerID       string  `json:"customerId"`
	PrincipalAmount  float64 `json:"principalAmount"`
	InterestRate     float64 `json:"interestRate"`
	DurationInDays   int     `json:"durationInDays"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	DailyInstallment float64 `json:"dailyInstallment"`
	TotalAmount      float64 `json:"totalAmount"`
	Status           string  `json:"status"`
	CreatedBy        string  `json:"createdBy"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func newLoanResponse(l *model.Loan) loanResponse {
	return loanResponse{
		ID:               l.ID.String(),
		CustomerID:       l.CustomerID.String(),
		PrincipalAmount:  l.PrincipalAmount.InexactFloat64(),
		InterestRate:     l.InterestRate.InexactFloat64(),
		DurationInDays:   l.DurationInDays,
		StartDate:        formatDate(l.StartDate),
		EndDate:          formatDate(l.EndDate),
		DailyInstallment: l.DailyInstallment.InexactFloat64(),
		TotalAmount:      l.TotalAmount.InexactFloat64(),
		Status:           string(l.Status),
		CreatedBy:        l.CreatedBy.String(),
		CreatedAt:        formatTime(l.CreatedAt),
		UpdatedAt:        formatTime(l.UpdatedAt),
	}
}

func newLoanResponses(loans []model.Loan) []loanResponse {
	resp := make([]loanResponse, 0, len(loans))
	for i := range loans {
		resp = append(resp, newLoanResponse(&loans[i]))
	}
	return resp
}

type loanListResponse struct {
	listData
	Loans []loanResponse `json:"loans"`
}

// ListLoans возвращает страницу займов.
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListLoans(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, r, "list loans", err)
		return
	}

	h.success(w, http.StatusOK, "Loans retrieved successfully", loanListResponse{
		listData: listData{Count: len(list.Items), Total: list.Total, Pagination: list.Pagination},
		Loans:    newLoanResponses(list.Items),
	})
}

// GetLoan возвращает заём по идентификатору.
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	l, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get loan", err)
		return
	}

	h.success(w, http.StatusOK, "Loan retrieved successfully", newLoanResponse(l))
}

// ListCustomerLoans возвращает все займы клиента.
func (h *Handler) ListCustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.uuidParam(w, r, "customerId")
	if !ok {
		return
	}

	loans, err := h.service.ListLoansByCustomer(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, "list customer loans", err)
		return
	}

	h.success(w, http.StatusOK, "Customer loans retrieved successfully", map[string]any{
		"count": len(loans),
		"loans": newLoanResponses(loans),
	})
}

// CreateLoan выдаёт заём и создаёт его график платежей.
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req loanRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var start time.Time
	if req.StartDate != "" {
		var err error
		start, err = parseDate(req.StartDate)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "invalid startDate")
			return
		}
	}

	l, err := h.service.CreateLoan(r.Context(), ident.UserID, service.LoanInput{
		CustomerID:      req.CustomerID,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		DurationInDays:  req.DurationInDays,
		StartDate:       start,
	})
	if err != nil {
		h.writeError(w, r, "create loan", err)
		return
	}

	h.success(w, http.StatusCreated, "Loan created successfully", newLoanResponse(l))
}

// UpdateLoanStatus вручную меняет статус займа.
func (h *Handler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req loanStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.service.UpdateLoanStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, r, "update loan status", err)
		return
	}

	h.success(w, http.StatusOK, "Loan updated successfully", newLoanResponse(l))
}
