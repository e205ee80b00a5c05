package atm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"go-atm/models"
)

// Rule is the minimum balance an account should keep and the service
// charge levied when a debit takes it below that minimum.
type Rule struct {
	MinBalance decimal.Decimal
	Penalty    decimal.Decimal
}

// Rules holds the rule for each account type.
type Rules struct {
	Savings Rule
	Current Rule
}

// DefaultRules are the bank's standard limits.
func DefaultRules() Rules {
	return Rules{
		Savings: Rule{MinBalance: decimal.NewFromInt(1000), Penalty: decimal.NewFromInt(50)},
		Current: Rule{MinBalance: decimal.NewFromInt(5000), Penalty: decimal.NewFromInt(250)},
	}
}

// For returns the rule governing t.
func (r Rules) For(t models.AccountType) Rule {
	if t == models.Savings {
		return r.Savings
	}
	return r.Current
}

// debit works out what leaves an account holding balance when amount is
// withdrawn. If the remainder stays at or above the minimum only amount is
// charged. Otherwise the penalty is added, provided the account does not go
// negative.
func (r Rule) debit(balance, amount decimal.Decimal) (charge decimal.Decimal, penalized bool, err error) {
	remaining := balance.Sub(amount)
	if remaining.GreaterThanOrEqual(r.MinBalance) {
		return amount, false, nil
	}
	if remaining.Sub(r.Penalty).IsNegative() {
		return decimal.Zero, false, fmt.Errorf("balance %s, requested %s plus charge %s: %w",
			balance.StringFixed(2), amount.StringFixed(2), r.Penalty.StringFixed(2), models.ErrInsufficientFunds)
	}
	return amount.Add(r.Penalty), true, nil
}
