// Package atm holds the transaction engine and the service that composes it
// with the credential pool, the ledger and the access gate.
package atm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-atm/models"
)

// Accounts is the part of the ledger the engine needs.
type Accounts interface {
	Find(id string) (models.Customer, bool)
	Update(id string, fn func(c *models.Customer) error) error
	UpdatePair(aID, bID string, fn func(a, b *models.Customer) error) error
}

// Engine applies inquiries, withdrawals and transfers to the ledger under
// the minimum-balance rules. It performs no session checks.
type Engine struct {
	accounts Accounts
	rules    Rules
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEngine creates an engine over accounts
func NewEngine(accounts Accounts, rules Rules) *Engine {
	return &Engine{
		accounts: accounts,
		rules:    rules,
		tracer:   otel.Tracer("go-atm/atm"),
		now:      time.Now,
	}
}

// Rules returns the rules the engine enforces
func (e *Engine) Rules() Rules {
	return e.rules
}

// Inquire returns both balances of a customer
func (e *Engine) Inquire(ctx context.Context, id string) (models.Balances, error) {
	_, span := e.tracer.Start(ctx, "atm.inquire",
		trace.WithAttributes(attribute.String("customer.id", id)),
	)
	defer span.End()

	customer, ok := e.accounts.Find(id)
	if !ok {
		err := fmt.Errorf("inquire %s: %w", id, models.ErrNotFound)
		fail(span, err)
		return models.Balances{}, err
	}
	return customer.Balances(), nil
}

// Withdraw debits amount from one of id's accounts. The whole debit,
// service charge included, is applied or nothing is.
func (e *Engine) Withdraw(ctx context.Context, id string, account models.AccountType, amount decimal.Decimal) (models.Receipt, error) {
	_, span := e.tracer.Start(ctx, "atm.withdraw",
		trace.WithAttributes(
			attribute.String("customer.id", id),
			attribute.String("account.type", string(account)),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	if err := checkAmount(amount); err != nil {
		fail(span, err)
		return models.Receipt{}, err
	}
	if !account.Valid() {
		err := fmt.Errorf("withdraw: %w: %q", models.ErrInvalidAccountType, account)
		fail(span, err)
		return models.Receipt{}, err
	}

	receipt := models.Receipt{
		Type:        models.TxWithdrawal,
		CustomerID:  id,
		AccountType: account,
		Amount:      amount,
		Penalty:     decimal.Zero,
	}
	rule := e.rules.For(account)

	err := e.accounts.Update(id, func(c *models.Customer) error {
		charge, penalized, err := rule.debit(c.Balance(account), amount)
		if err != nil {
			return err
		}
		c.SetBalance(account, c.Balance(account).Sub(charge))
		if penalized {
			receipt.Penalty = rule.Penalty
			receipt.PenaltyApplied = true
		}
		receipt.Balances = c.Balances()
		return nil
	})
	if err != nil {
		err = fmt.Errorf("withdraw %s from %s: %w", amount.StringFixed(2), id, err)
		fail(span, err)
		return models.Receipt{}, err
	}

	e.stamp(&receipt)
	span.SetAttributes(attribute.Bool("penalty.applied", receipt.PenaltyApplied))
	return receipt, nil
}

// Transfer moves amount from one account to another. Only the source
// rule applies; a service charge is debited from the source and credited
// nowhere. Both accounts change or neither does.
func (e *Engine) Transfer(ctx context.Context, fromID, toID string, fromAccount, toAccount models.AccountType, amount decimal.Decimal) (models.Receipt, error) {
	_, span := e.tracer.Start(ctx, "atm.transfer",
		trace.WithAttributes(
			attribute.String("from.customer.id", fromID),
			attribute.String("to.customer.id", toID),
			attribute.String("from.account.type", string(fromAccount)),
			attribute.String("to.account.type", string(toAccount)),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	if err := checkAmount(amount); err != nil {
		fail(span, err)
		return models.Receipt{}, err
	}
	for _, t := range []models.AccountType{fromAccount, toAccount} {
		if !t.Valid() {
			err := fmt.Errorf("transfer: %w: %q", models.ErrInvalidAccountType, t)
			fail(span, err)
			return models.Receipt{}, err
		}
	}
	receipt := models.Receipt{
		Type:          models.TxTransfer,
		CustomerID:    fromID,
		AccountType:   fromAccount,
		ToCustomerID:  toID,
		ToAccountType: toAccount,
		Amount:        amount,
		Penalty:       decimal.Zero,
	}
	rule := e.rules.For(fromAccount)

	err := e.accounts.UpdatePair(fromID, toID, func(from, to *models.Customer) error {
		charge, penalized, err := rule.debit(from.Balance(fromAccount), amount)
		if err != nil {
			return err
		}
		from.SetBalance(fromAccount, from.Balance(fromAccount).Sub(charge))
		// from and to alias for a self-transfer, so credit after the debit
		to.SetBalance(toAccount, to.Balance(toAccount).Add(amount))
		if penalized {
			receipt.Penalty = rule.Penalty
			receipt.PenaltyApplied = true
		}
		receipt.Balances = from.Balances()
		return nil
	})
	if err != nil {
		err = fmt.Errorf("transfer %s from %s to %s: %w", amount.StringFixed(2), fromID, toID, err)
		fail(span, err)
		return models.Receipt{}, err
	}

	e.stamp(&receipt)
	span.SetAttributes(attribute.Bool("penalty.applied", receipt.PenaltyApplied))
	return receipt, nil
}

func (e *Engine) stamp(r *models.Receipt) {
	r.ID = uuid.NewString()
	r.CreatedAt = e.now().UTC()
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", models.ErrInvalidAmount, amount.String())
	}
	return nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
