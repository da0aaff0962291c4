// Package lifecycle содержит правила смены статуса займа.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/loanbook/internal/model"
)

// ErrInvalidStatus возвращается для значения вне перечисления статусов займа.
var ErrInvalidStatus = errors.New("invalid loan status")

var validStatuses = map[string]model.LoanStatus{
	string(model.LoanStatusActive):    model.LoanStatusActive,
	string(model.LoanStatusCompleted): model.LoanStatusCompleted,
	string(model.LoanStatusDefaulted): model.LoanStatusDefaulted,
	string(model.LoanStatusCancelled): model.LoanStatusCancelled,
}

// ParseStatus преобразует строку в статус займа.
func ParseStatus(s string) (model.LoanStatus, error) {
	st, ok := validStatuses[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// ValidateTransition проверяет ручную смену статуса займа. Администратор может перевести
// заём в любой из четырёх статусов независимо от текущего.
func ValidateTransition(from, to model.LoanStatus) error {
	if _, ok := validStatuses[string(from)]; !ok {
		return fmt.Errorf("%w: current %q", ErrInvalidStatus, from)
	}
	if _, ok := validStatuses[string(to)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return nil
}

// AutoCompletes сообщает, должен ли заём автоматически перейти в completed, когда
// непогашенных платежей осталось remaining. Автоматически закрывается только активный заём.
func AutoCompletes(current model.LoanStatus, remaining int64) bool {
	return current == model.LoanStatusActive && remaining == 0
}
