// Package validation содержит функции валидации входных данных.
package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Errors описывает нарушения по полям запроса: поле -> причина.
type Errors map[string]string

// Error собирает нарушения в стабильную строку вида "field: reason; ...".
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Empty сообщает, что нарушений нет.
func (e Errors) Empty() bool { return len(e) == 0 }

// Err возвращает nil, если нарушений нет.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Required отмечает пустое значение.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e[field] = "required"
	}
}

// MaxLen отмечает строку длиннее max символов.
func (e Errors) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e[field] = "too_long"
	}
}

// Positive отмечает значение, не превышающее нуля.
func (e Errors) Positive(field string, v decimal.Decimal) {
	if !v.IsPositive() {
		e[field] = "must_be_positive"
	}
}

// NonNegative отмечает отрицательное значение.
func (e Errors) NonNegative(field string, v decimal.Decimal) {
	if v.IsNegative() {
		e[field] = "must_not_be_negative"
	}
}

// MaxScale отмечает число с более чем places знаками после запятой.
func (e Errors) MaxScale(field string, v decimal.Decimal, places int32) {
	if _, set := e[field]; set {
		return
	}
	if !v.Equal(v.Truncate(places)) {
		e[field] = "too_many_decimals"
	}
}

// LessThan отмечает значение, не меньшее limit.
func (e Errors) LessThan(field string, v, limit decimal.Decimal) {
	if _, set := e[field]; set {
		return
	}
	if v.GreaterThanOrEqual(limit) {
		e[field] = "too_large"
	}
}

// Range отмечает целое вне отрезка [min, max].
func (e Errors) Range(field string, v, min, max int) {
	if v < min || v > max {
		e[field] = "out_of_range"
	}
}

// Phone отмечает некорректный номер телефона.
func (e Errors) Phone(field, value string) {
	if _, set := e[field]; set {
		return
	}
	if !IsValidPhone(value) {
		e[field] = "invalid_phone"
	}
}

// Email отмечает некорректный адрес электронной почты.
func (e Errors) Email(field, value string) {
	if _, set := e[field]; set {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		e[field] = "invalid_email"
	}
}

// IsValidPhone проверяет номер телефона: необязательный "+" в начале, затем цифры,
// пробелы, дефисы и скобки; от 5 до 20 символов, не меньше 5 цифр.
func IsValidPhone(phone string) bool {
	if phone == "" || len(phone) > 20 {
		return false
	}

	digits := 0
	for i, ch := range phone {
		switch {
		case unicode.IsDigit(ch):
			digits++
		case ch == '+' && i == 0:
		case ch == ' ', ch == '-', ch == '(', ch == ')':
		default:
			return false
		}
	}

	return digits >= 5
}
