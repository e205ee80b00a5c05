package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input string
		want  AccountType
	}{
		{"S", Savings},
		{"s", Savings},
		{" savings ", Savings},
		{"C", Current},
		{"Current", Current},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "X", "sc", "checking"} {
		_, err := ParseAccountType(bad)
		assert.ErrorIs(t, err, ErrInvalidAccountType, "input %q", bad)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestCustomerBalanceAccessors(t *testing.T) {
	c := Customer{ID: "CUST001", SavingsBalance: decimal.NewFromInt(10000), CurrentBalance: decimal.NewFromInt(25000)}

	assert.True(t, c.Balance(Savings).Equal(decimal.NewFromInt(10000)))
	assert.True(t, c.Balance(Current).Equal(decimal.NewFromInt(25000)))

	c.SetBalance(Current, decimal.NewFromInt(5000))
	assert.True(t, c.CurrentBalance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, c.SavingsBalance.Equal(decimal.NewFromInt(10000)), "savings must be untouched")

	b := c.Balances()
	assert.Equal(t, "CUST001", b.CustomerID)
	assert.True(t, b.Current.Equal(decimal.NewFromInt(5000)))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, ""},
		{ErrInvalidAmount, KindValidation},
		{fmt.Errorf("withdraw CUST001: %w", ErrNotFound), KindNotFound},
		{ErrNoSession, KindNotFound},
		{fmt.Errorf("transfer: %w", ErrInsufficientFunds), KindInsufficientFunds},
		{ErrInvalidCredentials, KindUnauthorized},
		{ErrPasswordChangeRequired, KindPasswordChangeRequired},
		{ErrNotYourTurn, KindNotYourTurn},
		{ErrDuplicateID, KindDuplicateID},
		{ErrCapacityExceeded, KindCapacityExceeded},
		{ErrPoolExhausted, KindPoolExhausted},
		{fmt.Errorf("withdraw CUST001: %w", context.DeadlineExceeded), KindTimeout},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "KindOf(%v)", tt.err)
	}
}
