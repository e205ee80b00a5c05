package console

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-atm/atm"
	"go-atm/credentials"
	"go-atm/gate"
	"go-atm/models"
	"go-atm/store"
)

func newService(t *testing.T) (*atm.Service, *store.Ledger) {
	t.Helper()
	ledger := store.NewLedger(store.DefaultCapacity)
	svc := atm.NewService(
		credentials.NewPool(credentials.DefaultSeed(credentials.DefaultPoolSize)),
		ledger,
		gate.New(),
		atm.NewEngine(ledger, atm.DefaultRules()),
		atm.Options{},
	)
	return svc, ledger
}

func profileFor(i int) models.Profile {
	return models.Profile{
		Name:    fmt.Sprintf("Customer %d", i),
		Email:   fmt.Sprintf("c%d@bank.test", i),
		Address: "12 Long Street",
		Phone:   "0123456789",
	}
}

// activate registers a customer and replaces the default password with
// "secret" through a short session.
func activate(t *testing.T, svc *atm.Service, i int) string {
	t.Helper()
	ctx := context.Background()
	cred, err := svc.Register(ctx, profileFor(i))
	require.NoError(t, err)
	_, err = svc.Login(ctx, cred.CustomerID, cred.Password)
	require.NoError(t, err)
	require.NoError(t, svc.ChangePassword(ctx, cred.CustomerID, cred.Password, "secret"))
	require.NoError(t, svc.Logout(ctx, cred.CustomerID))
	return cred.CustomerID
}

func run(t *testing.T, svc *atm.Service, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(svc, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestSignUpLoginAndTransact(t *testing.T) {
	svc, ledger := newService(t)

	out := run(t, svc,
		"2", "Asha Rao", "asha@bank.test", "221 Baker Street", "9876543210",
		"1", "CUST010", "PASS010",
		"abc",
		"secret1", "secret2",
		"secret1", "secret1",
		"2", "s", "9001",
		"1",
		"3", "1", "C", "S", "500",
		"2", "S", "5000",
		"5",
		"3",
	)

	assert.Contains(t, out, "Customer ID: CUST010")
	assert.Contains(t, out, "Default Password: PASS010")
	assert.Contains(t, out, "This is your first login. You must change your password.")
	assert.Contains(t, out, "Password change failed: Password must be at least 6 characters")
	assert.Contains(t, out, "Password change failed: Passwords do not match")
	assert.Contains(t, out, "Password changed successfully!")
	assert.Contains(t, out, "Service charge of Rs. 50.00 applied")
	assert.Contains(t, out, "Savings Account: Rs. 949.00")
	assert.Contains(t, out, "Current Account: Rs. 25000.00")
	assert.Contains(t, out, "Transfer successful")
	assert.Contains(t, out, "Withdrawal failed: Insufficient funds")
	assert.Contains(t, out, "Logged out successfully")
	assert.Contains(t, out, "Thank you for using our services!")

	c, ok := ledger.Find("CUST010")
	require.True(t, ok)
	assert.Equal(t, "secret1", c.Password)
	assert.False(t, c.FirstLogin)
	assert.Equal(t, "1449.00", c.SavingsBalance.StringFixed(2))
	assert.Equal(t, "24500.00", c.CurrentBalance.StringFixed(2))
	assert.Empty(t, svc.Status().Queue)
}

func TestSignUpRejectsBadField(t *testing.T) {
	svc, ledger := newService(t)

	out := run(t, svc, "2", "Asha", "asha-at-bank", "3")
	assert.Contains(t, out, `Registration failed: Email must contain "@"`)
	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, credentials.DefaultPoolSize, svc.Status().CredentialsRemaining)
}

func TestBlankInputIsReprompted(t *testing.T) {
	svc, _ := newService(t)

	out := run(t, svc, "   ", "9", "3")
	assert.Contains(t, out, "Error: Input cannot be empty or only whitespace. Please try again.")
	assert.Contains(t, out, "Error: Invalid option")
}

func TestLoginFailure(t *testing.T) {
	svc, _ := newService(t)

	out := run(t, svc, "1", "CUST001", "PASS001", "3")
	assert.Contains(t, out, "Login failed: Invalid credentials")
}

func TestTransferToAnotherCustomer(t *testing.T) {
	svc, ledger := newService(t)
	activate(t, svc, 0)
	activate(t, svc, 1)

	out := run(t, svc,
		"1", "CUST010", "secret",
		"3", "2", "S", "CUST009", "C", "250.50",
		"3", "2", "S", "CUST404", "C", "1",
		"3", "1", "S", "S", "1",
		"2", "S", "abc",
		"5", "3",
	)
	assert.Contains(t, out, "Transfer successful")
	assert.Contains(t, out, "Transfer failed: Customer not found")
	assert.Contains(t, out, "Withdrawal failed: Invalid amount format")
	assert.NotContains(t, out, "Transfer failed: Insufficient funds")

	to, _ := ledger.Find("CUST009")
	assert.Equal(t, "25250.50", to.CurrentBalance.StringFixed(2))
	// savings to savings leaves the balance as it was
	from, _ := ledger.Find("CUST010")
	assert.Equal(t, "9749.50", from.SavingsBalance.StringFixed(2))
}

func TestChangePasswordTwiceInOneSession(t *testing.T) {
	svc, ledger := newService(t)
	id := activate(t, svc, 0)

	out := run(t, svc,
		"1", id, "secret",
		"4", "newpass1", "newpass1",
		"4", "newpass2", "newpass2",
		"5", "3",
	)
	assert.Equal(t, 2, strings.Count(out, "Password changed successfully!"))
	assert.NotContains(t, out, "Password change failed")

	c, _ := ledger.Find(id)
	assert.Equal(t, "newpass2", c.Password)
}

func TestInputEndingLogsOut(t *testing.T) {
	svc, _ := newService(t)
	id := activate(t, svc, 0)

	run(t, svc, "1", id, "secret", "1")
	assert.Empty(t, svc.Status().Queue, "an abandoned session must not hold the ATM")
}
