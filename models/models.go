package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType identifies one of the two accounts every customer holds
type AccountType string

const (
	Savings AccountType = "savings"
	Current AccountType = "current"
)

// ParseAccountType accepts the ATM tags "S" and "C" as well as the full names
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "savings":
		return Savings, nil
	case "c", "current":
		return Current, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	return t == Savings || t == Current
}

// Label is the display name used on receipts and menus
func (t AccountType) Label() string {
	switch t {
	case Savings:
		return "Savings"
	case Current:
		return "Current"
	}
	return string(t)
}

// Customer represents a bank customer together with both of their accounts
type Customer struct {
	ID             string          `json:"customerId"`
	Password       string          `json:"-"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	SavingsBalance decimal.Decimal `json:"savingsBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	FirstLogin     bool            `json:"firstLogin"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Balance returns the balance of the selected account
func (c *Customer) Balance(t AccountType) decimal.Decimal {
	if t == Savings {
		return c.SavingsBalance
	}
	return c.CurrentBalance
}

// SetBalance replaces the balance of the selected account
func (c *Customer) SetBalance(t AccountType, v decimal.Decimal) {
	if t == Savings {
		c.SavingsBalance = v
		return
	}
	c.CurrentBalance = v
}

// Balances returns a point-in-time view of both accounts
func (c *Customer) Balances() Balances {
	return Balances{
		CustomerID: c.ID,
		Savings:    c.SavingsBalance,
		Current:    c.CurrentBalance,
	}
}

// Balances is the result of a balance inquiry
type Balances struct {
	CustomerID string          `json:"customerId"`
	Savings    decimal.Decimal `json:"savings"`
	Current    decimal.Decimal `json:"current"`
}

// Credential is a default login pair handed to a new registrant
type Credential struct {
	CustomerID string `json:"customerId"`
	Password   string `json:"password"`
}

// Profile holds the registration fields collected by the input layer
type Profile struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

// TransactionType is the kind of money movement a receipt describes
type TransactionType string

const (
	TxWithdrawal TransactionType = "withdrawal"
	TxTransfer   TransactionType = "transfer"
)

// Receipt describes a completed withdrawal or transfer.
// Balances are the source customer's balances after the operation.
type Receipt struct {
	ID             string          `json:"id"`
	Type           TransactionType `json:"type"`
	CustomerID     string          `json:"customerId"`
	AccountType    AccountType     `json:"accountType"`
	ToCustomerID   string          `json:"toCustomerId,omitempty"`
	ToAccountType  AccountType     `json:"toAccountType,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Penalty        decimal.Decimal `json:"penalty"`
	PenaltyApplied bool            `json:"penaltyApplied"`
	Balances       Balances        `json:"balances"`
	CreatedAt      time.Time       `json:"createdAt"`
}
