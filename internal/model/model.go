// Package model содержит доменные сущности сервиса учёта займов.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role описывает роль пользователя системы.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCollector Role = "collector"
)

// User представляет зарегистрированного сотрудника: администратора или инкассатора.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}

// Address содержит почтовый адрес клиента.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// Customer описывает клиента, которому выдаются займы.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Address   Address
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoanStatus описывает стадию жизненного цикла займа.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
	LoanStatusCancelled LoanStatus = "cancelled"
)

// LoanStatuses перечисляет все допустимые статусы займа.
var LoanStatuses = []LoanStatus{
	LoanStatusActive,
	LoanStatusCompleted,
	LoanStatusDefaulted,
	LoanStatusCancelled,
}

// Loan описывает заём клиента. DailyInstallment и TotalAmount вычисляются при создании
// и далее не меняются.
type Loan struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	PrincipalAmount  decimal.Decimal
	InterestRate     decimal.Decimal
	DurationInDays   int
	StartDate        time.Time
	EndDate          time.Time
	DailyInstallment decimal.Decimal
	TotalAmount      decimal.Decimal
	Status           LoanStatus
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Installment описывает ежедневный платёж по займу.
type Installment struct {
	ID          uuid.UUID
	LoanID      uuid.UUID
	DueDate     time.Time
	Amount      decimal.Decimal
	Collected   bool
	CollectedAt *time.Time
	CollectedBy *uuid.UUID
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InstallmentDetail дополняет платёж сведениями о займе и клиенте для списков инкассатора.
type InstallmentDetail struct {
	Installment
	LoanStatus       LoanStatus
	DailyInstallment decimal.Decimal
	CustomerID       uuid.UUID
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  Address
	CollectorName    string
}

// InstallmentFilter задаёт условия выборки истории платежей.
type InstallmentFilter struct {
	Collected *bool
	LoanID    *uuid.UUID
	From      *time.Time
	To        *time.Time
}

// CollectionResult описывает итог приёма платежа.
type CollectionResult struct {
	Installment   Installment
	LoanCompleted bool
}

// Summary содержит сводные показатели портфеля займов.
type Summary struct {
	Customers       int64
	LoansByStatus   map[LoanStatus]int64
	ExpectedAmount  decimal.Decimal
	CollectedAmount decimal.Decimal
	Outstanding     decimal.Decimal
	DueToday        int64
	CollectedToday  int64
}

// CollectorStats содержит показатели сборов одного инкассатора.
type CollectorStats struct {
	UserID          uuid.UUID
	Name            string
	Collected       int64
	CollectedAmount decimal.Decimal
}
