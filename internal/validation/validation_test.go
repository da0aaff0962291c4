package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "plain digits", phone: "9876543210", valid: true},
		{name: "international", phone: "+91 98765-43210", valid: true},
		{name: "with brackets", phone: "(022) 2345 678", valid: true},
		{name: "too short", phone: "1234", valid: false},
		{name: "letters", phone: "98765abc10", valid: false},
		{name: "plus in the middle", phone: "98+76543210", valid: false},
		{name: "too long", phone: "123456789012345678901", valid: false},
		{name: "empty", phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPhone(tt.phone), "IsValidPhone(%q)", tt.phone)
		})
	}
}

func TestErrors(t *testing.T) {
	v := Errors{}
	v.Required("name", "  ")
	v.MaxLen("address.city", "Санкт-Петербург", 5)
	v.Positive("principalAmount", decimal.Zero)
	v.NonNegative("interestRate", decimal.NewFromInt(-1))
	v.Range("durationInDays", 0, 1, 3650)
	v.Phone("phone", "abc")
	v.Email("email", "not-an-email")

	assert.False(t, v.Empty())
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "too_long", v["address.city"])
	assert.Equal(t, "must_be_positive", v["principalAmount"])
	assert.Equal(t, "must_not_be_negative", v["interestRate"])
	assert.Equal(t, "out_of_range", v["durationInDays"])
	assert.Equal(t, "invalid_phone", v["phone"])
	assert.Equal(t, "invalid_email", v["email"])
	assert.Error(t, v.Err())
}

func TestErrorsKeepsFirstViolation(t *testing.T) {
	v := Errors{}
	v.Required("phone", "")
	v.Phone("phone", "")
	assert.Equal(t, "required", v["phone"])
}

func TestErrorsString(t *testing.T) {
	v := Errors{"b": "required", "a": "too_long"}
	assert.Equal(t, "a: too_long; b: required", v.Error())

	assert.NoError(t, Errors{}.Err())
}

func TestMaxScale(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{value: "1000", ok: true},
		{value: "1000.50", ok: true},
		{value: "1000.500", ok: true},
		{value: "1000.005", ok: false},
		{value: "0.001", ok: false},
	}

	for _, tt := range tests {
		v := Errors{}
		v.MaxScale("principalAmount", decimal.RequireFromString(tt.value), 2)
		assert.Equal(t, tt.ok, v.Empty(), tt.value)
	}
}

func TestLessThan(t *testing.T) {
	limit := decimal.NewFromInt(10000)

	v := Errors{}
	v.LessThan("interestRate", decimal.RequireFromString("9999.999"), limit)
	assert.True(t, v.Empty())

	v.LessThan("interestRate", limit, limit)
	assert.Equal(t, "too_large", v["interestRate"])

	v = Errors{"interestRate": "must_not_be_negative"}
	v.LessThan("interestRate", decimal.NewFromInt(20000), limit)
	assert.Equal(t, "must_not_be_negative", v["interestRate"], "first violation wins")
}
