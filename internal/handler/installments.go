package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mmeshcher/loanbook/internal/model"
)

type collectRequest struct {
	Notes string `json:"notes"`
}

type installmentResponse struct {
	ID          string  `json:"id"`
	LoanID      string  `json:"loanId"`
	DueDate     string  `json:"dueDate"`
	Amount      float64 `json:"amount"`
	Collected   bool    `json:"collected"`
	CollectedAt *string `json:"collectedAt"`
	CollectedBy *string `json:"collectedBy"`
	Notes       string  `json:"notes"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func newInstallmentResponse(i *model.Installment) installmentResponse {
	resp := installmentResponse{
		ID:        i.ID.String(),
		LoanID:    i.LoanID.String(),
		DueDate:   formatDate(i.DueDate),
		Amount:    i.Amount.InexactFloat64(),
		Collected: i.Collected,
		Notes:     i.Notes,
		CreatedAt: formatTime(i.CreatedAt),
		UpdatedAt: formatTime(i.UpdatedAt),
	}
	if i.CollectedAt != nil {
		s := formatTime(*i.CollectedAt)
		resp.CollectedAt = &s
	}
	if i.CollectedBy != nil {
		s := i.CollectedBy.String()
		resp.CollectedBy = &s
	}
	return resp
}

type installmentLoanResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	DailyInstallment float64 `json:"dailyInstallment"`
}

type installmentCustomerResponse struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Address model.Address `json:"address"`
}

type installmentDetailResponse struct {
	installmentResponse
	Loan          installmentLoanResponse     `json:"loan"`
	Customer      installmentCustomerResponse `json:"customer"`
	CollectorName string                      `json:"collectorName,omitempty"`
}

func newInstallmentDetailResponses(items []model.InstallmentDetail) []installmentDetailResponse {
	resp := make([]installmentDetailResponse, 0, len(items))
	for i := range items {
		d := &items[i]
		resp = append(resp, installmentDetailResponse{
			installmentResponse: newInstallmentResponse(&d.Installment),
			Loan: installmentLoanResponse{
				ID:               d.LoanID.String(),
				Status:           string(d.LoanStatus),
				DailyInstallment: d.DailyInstallment.InexactFloat64(),
			},
			Customer: installmentCustomerResponse{
				ID:      d.CustomerID.String(),
				Name:    d.CustomerName,
				Phone:   d.CustomerPhone,
				Address: d.CustomerAddress,
			},
			CollectorName: d.CollectorName,
		})
	}
	return resp
}

// ListLoanInstallments возвращает график платежей займа.
func (h *Handler) ListLoanInstallments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := h.uuidParam(w, r, "loanId")
	if !ok {
		return
	}

	items, err := h.service.ListInstallmentsByLoan(r.Context(), loanID)
	if err != nil {
		h.writeError(w, r, "list loan installments", err)
		return
	}

	resp := make([]installmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, newInstallmentResponse(&items[i]))
	}

	h.success(w, http.StatusOK, "Installments retrieved successfully", map[string]any{
		"count":        len(resp),
		"installments": resp,
	})
}

// ListDueInstallments возвращает несобранные платежи со сроком сегодня.
func (h *Handler) ListDueInstallments(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListDueInstallments(r.Context())
	if err != nil {
		h.writeError(w, r, "list due installments", err)
		return
	}

	h.success(w, http.StatusOK, "Due installments retrieved successfully", map[string]any{
		"count":        len(items),
		"installments": newInstallmentDetailResponses(items),
	})
}

// CollectInstallment отмечает платёж собранным текущим пользователем.
func (h *Handler) CollectInstallment(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req collectRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.CollectInstallment(r.Context(), id, ident.UserID, req.Notes)
	if err != nil {
		h.writeError(w, r, "collect installment", err)
		return
	}

	h.success(w, http.StatusOK, "Installment collected successfully", map[string]any{
		"installment":   newInstallmentResponse(&res.Installment),
		"loanCompleted": res.LoanCompleted,
	})
}

type installmentHistoryResponse struct {
	listData
	Installments []installmentDetailResponse `json:"installments"`
}

// InstallmentHistory возвращает страницу истории платежей по фильтрам collected, loanId,
// startDate и endDate.
func (h *Handler) InstallmentHistory(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.installmentFilter(w, r)
	if !ok {
		return
	}

	list, err := h.service.InstallmentHistory(r.Context(), filter, pageFromQuery(r))
	if err != nil {
		h.writeError(w, r, "installment history", err)
		return
	}

	h.success(w, http.StatusOK, "Installment history retrieved successfully", installmentHistoryResponse{
		listData:     listData{Count: len(list.Items), Total: list.Total, Pagination: list.Pagination},
		Installments: newInstallmentDetailResponses(list.Items),
	})
}

func (h *Handler) installmentFilter(w http.ResponseWriter, r *http.Request) (model.InstallmentFilter, bool) {
	var filter model.InstallmentFilter
	q := r.URL.Query()

	if v := q.Get("collected"); v != "" {
		collected, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "invalid collected")
			return filter, false
		}
		filter.Collected = &collected
	}

	if v := q.Get("loanId"); v != "" {
		loanID, err := uuid.Parse(v)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "invalid loanId")
			return filter, false
		}
		filter.LoanID = &loanID
	}

	if v := q.Get("startDate"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "invalid startDate")
			return filter, false
		}
		filter.From = &from
	}

	if v := q.Get("endDate"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "invalid endDate")
			return filter, false
		}
		filter.To = &to
	}

	return filter, true
}
