package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/loanbook/internal/amortization"
	"github.com/mmeshcher/loanbook/internal/lifecycle"
	"github.com/mmeshcher/loanbook/internal/model"
	"github.com/mmeshcher/loanbook/internal/repository"
	"github.com/mmeshcher/loanbook/internal/service"
	"github.com/mmeshcher/loanbook/internal/validation"
)

const dateLayout = "2006-01-02"

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type listData struct {
	Count      int              `json:"count"`
	Total      int64            `json:"total"`
	Pagination model.Pagination `json:"pagination"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) success(w http.ResponseWriter, status int, msg string, data any) {
	h.writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, envelope{Success: false, Message: msg})
}

// writeError отображает ошибку сервиса в HTTP-статус. Неизвестные ошибки пишутся в журнал
// и скрываются от клиента, кроме режима отладки.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr validation.Errors

	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusBadRequest, envelope{
			Message: "validation failed: " + verr.Error(),
			Data:    map[string]any{"errors": verr},
		})
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		h.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.fail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, repository.ErrUserNotFound):
		h.fail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrCustomerNotFound):
		h.fail(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, repository.ErrLoanNotFound):
		h.fail(w, http.StatusNotFound, "Loan not found")
	case errors.Is(err, repository.ErrInstallmentNotFound):
		h.fail(w, http.StatusNotFound, "Installment not found")
	case errors.Is(err, repository.ErrEmailTaken):
		h.fail(w, http.StatusConflict, "User already exists")
	case errors.Is(err, repository.ErrPhoneTaken):
		h.fail(w, http.StatusConflict, "Customer with this phone number already exists")
	case errors.Is(err, repository.ErrAlreadyCollected):
		h.fail(w, http.StatusConflict, "Installment already collected")
	case errors.Is(err, repository.ErrCustomerHasLoans):
		h.fail(w, http.StatusConflict, "Customer has loans and cannot be deleted")
	default:
		h.logger.Error(op+" error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		msg := "Server error"
		if h.debug {
			msg = err.Error()
		}
		h.fail(w, http.StatusInternalServerError, msg)
	}
}

// decodeJSON читает тело запроса. Пустое тело допустимо, если allowEmpty.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (h *Handler) uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		h.fail(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func pageFromQuery(r *http.Request) model.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.NewPage(number, limit)
}

// parseDate принимает дату вида 2006-01-02 или момент в RFC 3339 и возвращает календарный
// день в UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return amortization.TruncateDay(t), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
