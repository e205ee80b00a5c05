package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() Registration {
	return Registration{
		Name:    "Jo",
		Email:   "jo@bank.test",
		Address: "1 Main",
		Phone:   "0123456789",
	}
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Registration)
		wantMsg string
	}{
		{"valid", func(r *Registration) {}, ""},
		{"blank name", func(r *Registration) { r.Name = "   " }, "Name cannot be empty"},
		{"short name", func(r *Registration) { r.Name = "J" }, "Name must be at least 2 characters"},
		{"email without at", func(r *Registration) { r.Email = "jo.bank.test" }, `Email must contain "@"`},
		{"email without dot", func(r *Registration) { r.Email = "jo@banktest" }, `Email must contain "."`},
		{"short address", func(r *Registration) { r.Address = "1 Ma" }, "Address must be at least 5 characters"},
		{"short phone", func(r *Registration) { r.Phone = "012345678" }, "Phone number must be exactly 10 digits"},
		{"phone with letters", func(r *Registration) { r.Phone = "01234567ab" }, "Phone number must contain digits only"},
		{"missing phone", func(r *Registration) { r.Phone = "" }, "Phone number cannot be empty"},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRegistration()
			tt.mutate(&r)
			err := v.Check(r)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, Messages(err), tt.wantMsg)
		})
	}
}

func TestPasswordChange(t *testing.T) {
	v := New()

	assert.NoError(t, v.Check(PasswordChange{CurrentPassword: "PASS010", NewPassword: "secret", ConfirmPassword: "secret"}))

	err := v.Check(PasswordChange{CurrentPassword: "PASS010", NewPassword: "short", ConfirmPassword: "short"})
	assert.Equal(t, []string{"Password must be at least 6 characters"}, Messages(err))

	err = v.Check(PasswordChange{CurrentPassword: "PASS010", NewPassword: "secret", ConfirmPassword: "secreT"})
	assert.Equal(t, []string{"Passwords do not match"}, Messages(err))

	err = v.Check(PasswordChange{NewPassword: "secret", ConfirmPassword: "secret"})
	assert.Equal(t, []string{"Current password cannot be empty"}, Messages(err))
}

func TestCheckFieldOnlyChecksThatField(t *testing.T) {
	v := New()
	r := Registration{Name: "Jo"}

	assert.NoError(t, v.CheckField(r, "Name"))
	assert.Error(t, v.CheckField(r, "Email"))
}

func TestLogin(t *testing.T) {
	v := New()
	assert.NoError(t, v.Check(Login{CustomerID: "CUST001", Password: "PASS001"}))
	assert.Error(t, v.Check(Login{CustomerID: " ", Password: "PASS001"}))
}

func TestMessagesForOtherErrors(t *testing.T) {
	assert.Nil(t, Messages(nil))
	assert.Equal(t, []string{"Invalid request body"}, Messages(errors.New("unexpected EOF")))
}
