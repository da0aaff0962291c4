package handler

import (
	"net/http"

	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/service"
)

type customerRequest struct {
	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Address model.Address `json:"address"`
}

func (req customerRequest) input() service.CustomerInput {
	return service.CustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

type customerResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Address   model.Address `json:"address"`
	CreatedBy string        `json:"createdBy"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

func newCustomerResponse(c *model.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}

type customerListResponse struct {
	listData
	Customers []customerResponse `json:"customers"`
}

// ListCustomers возвращает страницу клиентов.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCustomers(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, r, "list customers", err)
		return
	}

	resp := customerListResponse{
		listData:  listData{Count: len(list.Items), Total: list.Total, Pagination: list.Pagination},
		Customers: make([]customerResponse, 0, len(list.Items)),
	}
	for i := range list.Items {
		resp.Customers = append(resp.Customers, newCustomerResponse(&list.Items[i]))
	}

	h.success(w, http.StatusOK, "Customers retrieved successfully", resp)
}

// GetCustomer возвращает клиента по идентификатору.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get customer", err)
		return
	}

	h.success(w, http.StatusOK, "Customer retrieved successfully", newCustomerResponse(c))
}

// CreateCustomer создаёт клиента от имени текущего пользователя.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.service.CreateCustomer(r.Context(), ident.UserID, req.input())
	if err != nil {
		h.writeError(w, r, "create customer", err)
		return
	}

	h.success(w, http.StatusCreated, "Customer created successfully", newCustomerResponse(c))
}

// UpdateCustomer заменяет данные клиента.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.service.UpdateCustomer(r.Context(), id, req.input())
	if err != nil {
		h.writeError(w, r, "update customer", err)
		return
	}

	h.success(w, http.StatusOK, "Customer updated successfully", newCustomerResponse(c))
}

// DeleteCustomer удаляет клиента без займов.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.writeError(w, r, "delete customer", err)
		return
	}

	h.success(w, http.StatusOK, "Customer deleted successfully", nil)
}
