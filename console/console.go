// Package console is the interactive menu-driven ATM front end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"go-atm/atm"
	"go-atm/input"
	"go-atm/models"
)

var errClosed = errors.New("input closed")

// Console reads menu choices from in and writes prompts to out.
type Console struct {
	svc     *atm.Service
	in      *bufio.Scanner
	out     io.Writer
	check   *input.Validator
	current string
	// password is what current logged in with, kept up to date across
	// password changes
	password string
}

// New creates a console over svc
func New(svc *atm.Service, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc:   svc,
		in:    bufio.NewScanner(in),
		out:   out,
		check: input.New(),
	}
}

// Run shows the start menu until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.println("\n=== Bank ATM System ===")
		c.println("1. Login")
		c.println("2. Sign Up")
		c.println("3. Exit")
		choice, err := c.ask("Choose an option: ")
		if err != nil {
			return c.closed(ctx, err)
		}

		switch choice {
		case "1":
			err = c.login(ctx)
		case "2":
			err = c.signUp(ctx)
		case "3":
			c.println("Thank you for using our services!")
			return nil
		default:
			c.println("Error: Invalid option")
		}
		if err != nil {
			return c.closed(ctx, err)
		}
	}
}

// closed releases any open session when input runs out.
func (c *Console) closed(ctx context.Context, err error) error {
	if c.current != "" {
		_ = c.svc.Logout(ctx, c.current)
		c.current, c.password = "", ""
	}
	if errors.Is(err, errClosed) {
		return nil
	}
	return err
}

func (c *Console) login(ctx context.Context) error {
	c.println("\n=== Login ===")
	id, err := c.ask("Enter Customer ID: ")
	if err != nil {
		return err
	}
	password, err := c.ask("Enter Password: ")
	if err != nil {
		return err
	}

	sess, err := c.svc.Login(ctx, id, password)
	if err != nil {
		c.println("Login failed: " + reason(err))
		return nil
	}
	c.current, c.password = sess.CustomerID, password
	c.println("Login successful!")

	if sess.FirstLogin {
		c.println("\nThis is your first login. You must change your password.")
		for {
			changed, err := c.changePassword(ctx)
			if err != nil {
				return err
			}
			if changed {
				break
			}
			c.println("You must change your password before continuing. Please try again.")
		}
	}

	if !c.svc.IsMyTurn(c.current) {
		c.printf("Another customer is using the ATM. You are number %d in the queue.\n", sess.Position+1)
		return nil
	}
	return c.mainMenu(ctx)
}

func (c *Console) signUp(ctx context.Context) error {
	c.println("\n=== New Customer Registration ===")
	var form input.Registration
	fields := []struct {
		prompt string
		name   string
		dst    *string
	}{
		{"Enter Name: ", "Name", &form.Name},
		{"Enter Email: ", "Email", &form.Email},
		{"Enter Address: ", "Address", &form.Address},
		{"Enter Phone: ", "Phone", &form.Phone},
	}
	for _, f := range fields {
		v, err := c.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
		if err := c.check.CheckField(form, f.name); err != nil {
			c.println("Registration failed: " + input.Messages(err)[0])
			return nil
		}
	}

	cred, err := c.svc.Register(ctx, models.Profile{
		Name:    form.Name,
		Email:   form.Email,
		Address: form.Address,
		Phone:   form.Phone,
	})
	if err != nil {
		c.println("Registration failed: " + reason(err))
		return nil
	}

	c.println("\nRegistration successful!")
	c.println("Your assigned credentials:")
	c.println("Customer ID: " + cred.CustomerID)
	c.println("Default Password: " + cred.Password)
	c.println("\nYou will be required to change your password upon first login.")
	return nil
}

// changePassword asks for a new password twice and reports whether it
// was changed.
func (c *Console) changePassword(ctx context.Context) (bool, error) {
	form := input.PasswordChange{CurrentPassword: c.password}
	var err error
	if form.NewPassword, err = c.ask("Enter new password: "); err != nil {
		return false, err
	}
	if err := c.check.CheckField(form, "NewPassword"); err != nil {
		c.println("Password change failed: " + input.Messages(err)[0])
		return false, nil
	}
	if form.ConfirmPassword, err = c.ask("Confirm new password: "); err != nil {
		return false, err
	}
	if err := c.check.Check(form); err != nil {
		c.println("Password change failed: " + input.Messages(err)[0])
		return false, nil
	}

	if err := c.svc.ChangePassword(ctx, c.current, form.CurrentPassword, form.NewPassword); err != nil {
		c.println("Password change failed: " + reason(err))
		return false, nil
	}
	c.password = form.NewPassword
	c.println("Password changed successfully!")
	return true, nil
}

func (c *Console) mainMenu(ctx context.Context) error {
	for c.svc.IsMyTurn(c.current) {
		c.println("\n=== Main Menu ===")
		c.println("1. Check Balance")
		c.println("2. Withdraw")
		c.println("3. Transfer")
		c.println("4. Change Password")
		c.println("5. Logout")
		choice, err := c.ask("Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			c.balance(ctx)
		case "2":
			err = c.withdraw(ctx)
		case "3":
			err = c.transfer(ctx)
		case "4":
			_, err = c.changePassword(ctx)
		case "5":
			c.logout(ctx)
			return nil
		default:
			c.println("Error: Invalid option")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) balance(ctx context.Context) {
	b, err := c.svc.Inquire(ctx, c.current)
	if err != nil {
		c.println("Error: " + reason(err))
		return
	}
	customer, _ := c.svc.Customer(ctx, c.current)
	c.printf("\nAccount Balances for %s:\n", customer.Name)
	c.printf("Savings Account: Rs. %s\n", b.Savings.StringFixed(2))
	c.printf("Current Account: Rs. %s\n", b.Current.StringFixed(2))
}

func (c *Console) withdraw(ctx context.Context) error {
	account, err := c.askAccount("Select account (S for Savings, C for Current): ")
	if err != nil {
		return c.failed("Withdrawal failed: ", err)
	}
	amount, err := c.askAmount("Enter amount to withdraw: ")
	if err != nil {
		return c.failed("Withdrawal failed: ", err)
	}

	r, err := c.svc.Withdraw(ctx, c.current, account, amount)
	if err != nil {
		c.println("Withdrawal failed: " + reason(err))
		return nil
	}
	c.penalty(r)
	c.println("Withdrawal successful")
	return nil
}

func (c *Console) transfer(ctx context.Context) error {
	c.println("\nTransfer Options:")
	c.println("1. Between own accounts")
	c.println("2. To another customer")
	choice, err := c.ask("Select option: ")
	if err != nil {
		return err
	}
	if choice != "1" && choice != "2" {
		c.println("Transfer failed: Invalid transfer option")
		return nil
	}

	from, err := c.askAccount("From account (S/C): ")
	if err != nil {
		return c.failed("Transfer failed: ", err)
	}
	toID := c.current
	prompt := "To account (S/C): "
	if choice == "2" {
		if toID, err = c.ask("Enter recipient's Customer ID: "); err != nil {
			return err
		}
		prompt = "To recipient's account (S/C): "
	}
	to, err := c.askAccount(prompt)
	if err != nil {
		return c.failed("Transfer failed: ", err)
	}
	amount, err := c.askAmount("Enter amount to transfer: ")
	if err != nil {
		return c.failed("Transfer failed: ", err)
	}

	r, err := c.svc.Transfer(ctx, c.current, toID, from, to, amount)
	if err != nil {
		c.println("Transfer failed: " + reason(err))
		return nil
	}
	c.penalty(r)
	c.println("Transfer successful")
	return nil
}

func (c *Console) logout(ctx context.Context) {
	if err := c.svc.Logout(ctx, c.current); err != nil {
		c.println("Error during logout")
	} else {
		c.println("Logged out successfully")
	}
	c.current, c.password = "", ""
}

func (c *Console) penalty(r models.Receipt) {
	if r.PenaltyApplied {
		c.printf("Service charge of Rs. %s applied\n", r.Penalty.StringFixed(2))
	}
}

// failed prints a validation failure and swallows it. Closed input is
// passed through.
func (c *Console) failed(prefix string, err error) error {
	if errors.Is(err, errClosed) {
		return err
	}
	c.println(prefix + reason(err))
	return nil
}

// ask prompts until a non-blank line arrives.
func (c *Console) ask(prompt string) (string, error) {
	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", fmt.Errorf("read input: %w", err)
			}
			return "", errClosed
		}
		line := strings.TrimSpace(c.in.Text())
		if line != "" {
			return line, nil
		}
		c.println("Error: Input cannot be empty or only whitespace. Please try again.")
	}
}

func (c *Console) askAccount(prompt string) (models.AccountType, error) {
	v, err := c.ask(prompt)
	if err != nil {
		return "", err
	}
	return models.ParseAccountType(v)
}

func (c *Console) askAmount(prompt string) (decimal.Decimal, error) {
	v, err := c.ask(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errInvalidAmountFormat
	}
	if !amount.IsPositive() {
		return decimal.Zero, models.ErrInvalidAmount
	}
	return amount, nil
}

var errInvalidAmountFormat = errors.New("invalid amount format")

// reason is the short text shown to the customer for err.
func reason(err error) string {
	switch {
	case errors.Is(err, errInvalidAmountFormat):
		return "Invalid amount format"
	case errors.Is(err, models.ErrInvalidAmount):
		return "Amount must be greater than zero"
	case errors.Is(err, models.ErrInvalidAccountType):
		return "Invalid account type. Please enter S or C"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, models.ErrNotFound):
		return "Customer not found"
	case errors.Is(err, models.ErrNotYourTurn):
		return "Another customer is using the ATM"
	case errors.Is(err, models.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, models.ErrPasswordChangeRequired):
		return "You must change your password before continuing"
	case errors.Is(err, models.ErrPoolExhausted):
		return "No more default credentials available"
	case errors.Is(err, models.ErrCapacityExceeded):
		return "Maximum customer limit reached"
	}
	return err.Error()
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
