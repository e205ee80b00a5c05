package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-atm/models"
)

func newCustomer(id string) models.Customer {
	return models.Customer{
		ID:             id,
		Password:       "PASS" + id[len(id)-3:],
		Name:           "Test " + id,
		SavingsBalance: decimal.NewFromInt(10000),
		CurrentBalance: decimal.NewFromInt(25000),
		FirstLogin:     true,
	}
}

func TestInsertAndFind(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	got, ok := l.Find("CUST001")
	require.True(t, ok)
	assert.Equal(t, "Test CUST001", got.Name)
	assert.True(t, got.FirstLogin)

	_, ok = l.Find("cust001")
	assert.False(t, ok, "lookup is an exact match")
	_, ok = l.Find("CUST999")
	assert.False(t, ok)
}

func TestFindReturnsCopy(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	got, _ := l.Find("CUST001")
	got.SavingsBalance = decimal.Zero
	got.Password = "hijacked"

	again, _ := l.Find("CUST001")
	assert.True(t, again.SavingsBalance.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "PASS001", again.Password)
}

func TestInsertDuplicate(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	err := l.Insert(newCustomer("CUST001"))
	assert.ErrorIs(t, err, models.ErrDuplicateID)
	assert.Equal(t, 1, l.Len())
}

func TestInsertCapacity(t *testing.T) {
	l := NewLedger(3)
	for i := 1; i <= 3; i++ {
		require.NoError(t, l.Insert(newCustomer(fmt.Sprintf("CUST%03d", i))))
	}

	err := l.Insert(newCustomer("CUST004"))
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)

	// capacity is checked before duplicates
	err = l.Insert(newCustomer("CUST001"))
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 3, l.Capacity())
}

func TestNewLedgerDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewLedger(0).Capacity())
}

func TestValidateCredentials(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	assert.True(t, l.ValidateCredentials("CUST001", "PASS001"))
	assert.False(t, l.ValidateCredentials("CUST001", "pass001"), "comparison is case-sensitive")
	assert.False(t, l.ValidateCredentials("CUST001", "PASS001 "))
	assert.False(t, l.ValidateCredentials("CUST002", "PASS001"))
}

func TestChangePassword(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	assert.True(t, l.ChangePassword("CUST001", "secret1"))
	got, _ := l.Find("CUST001")
	assert.Equal(t, "secret1", got.Password)
	assert.False(t, got.FirstLogin)

	// later changes keep the flag cleared
	assert.True(t, l.ChangePassword("CUST001", "secret2"))
	got, _ = l.Find("CUST001")
	assert.Equal(t, "secret2", got.Password)
	assert.False(t, got.FirstLogin)

	assert.False(t, l.ChangePassword("CUST404", "whatever"))
}

func TestUpdateRollsBackOnError(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	boom := errors.New("boom")
	err := l.Update("CUST001", func(c *models.Customer) error {
		c.SavingsBalance = decimal.Zero
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := l.Find("CUST001")
	assert.True(t, got.SavingsBalance.Equal(decimal.NewFromInt(10000)))
}

func TestUpdateKeepsID(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	require.NoError(t, l.Update("CUST001", func(c *models.Customer) error {
		c.ID = "CUST999"
		return nil
	}))
	_, ok := l.Find("CUST001")
	assert.True(t, ok)
	got, _ := l.Find("CUST001")
	assert.Equal(t, "CUST001", got.ID)
}

func TestUpdateNotFound(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	called := false
	err := l.Update("CUST001", func(c *models.Customer) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, called)
}

func TestUpdatePairNotFoundLeavesBothUntouched(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	err := l.UpdatePair("CUST001", "CUST002", func(a, b *models.Customer) error {
		t.Fatal("fn must not run when a record is missing")
		return nil
	})
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = l.UpdatePair("CUST002", "CUST001", func(a, b *models.Customer) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdatePairSameRecord(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))

	require.NoError(t, l.UpdatePair("CUST001", "CUST001", func(a, b *models.Customer) error {
		assert.Same(t, a, b)
		a.SavingsBalance = a.SavingsBalance.Sub(decimal.NewFromInt(100))
		b.CurrentBalance = b.CurrentBalance.Add(decimal.NewFromInt(100))
		return nil
	}))

	got, _ := l.Find("CUST001")
	assert.True(t, got.SavingsBalance.Equal(decimal.NewFromInt(9900)))
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(25100)))
}

func TestUpdatePairRollsBackBoth(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))
	require.NoError(t, l.Insert(newCustomer("CUST002")))

	boom := errors.New("boom")
	err := l.UpdatePair("CUST002", "CUST001", func(a, b *models.Customer) error {
		a.SavingsBalance = decimal.Zero
		b.SavingsBalance = decimal.Zero
		return boom
	})
	assert.ErrorIs(t, err, boom)

	for _, id := range []string{"CUST001", "CUST002"} {
		got, _ := l.Find(id)
		assert.True(t, got.SavingsBalance.Equal(decimal.NewFromInt(10000)), id)
	}
}

func TestConcurrentOpposingPairUpdates(t *testing.T) {
	l := NewLedger(DefaultCapacity)
	require.NoError(t, l.Insert(newCustomer("CUST001")))
	require.NoError(t, l.Insert(newCustomer("CUST002")))

	one := decimal.NewFromInt(1)
	move := func(from, to string) {
		err := l.UpdatePair(from, to, func(a, b *models.Customer) error {
			a.SavingsBalance = a.SavingsBalance.Sub(one)
			b.SavingsBalance = b.SavingsBalance.Add(one)
			return nil
		})
		if err != nil {
			t.Errorf("%s->%s: %v", from, to, err)
		}
	}

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() { defer wg.Done(); move("CUST001", "CUST002") }()
		go func() { defer wg.Done(); move("CUST002", "CUST001") }()
	}
	wg.Wait()

	a, _ := l.Find("CUST001")
	b, _ := l.Find("CUST002")
	assert.True(t, a.SavingsBalance.Add(b.SavingsBalance).Equal(decimal.NewFromInt(20000)))
}
