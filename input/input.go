// Package input holds the field rules for data a customer types in,
// shared by the HTTP binding layer and the console.
package input

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// TagName is the struct tag the rules live under. It matches gin's
// binding tag so the same structs bind and validate over HTTP.
const TagName = "binding"

// Registration is the sign-up form.
type Registration struct {
	Name    string `json:"name" binding:"required,notblank,min=2" label:"Name"`
	Email   string `json:"email" binding:"required,notblank,contains=@,contains=." label:"Email"`
	Address string `json:"address" binding:"required,notblank,min=5" label:"Address"`
	Phone   string `json:"phone" binding:"required,len=10,number" label:"Phone number"`
}

// PasswordChange is the change-password form. The new password must be
// typed twice.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" binding:"required" label:"Current password"`
	NewPassword     string `json:"newPassword" binding:"required,notblank,min=6" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword" label:"Confirmation"`
}

// Login is the login form.
type Login struct {
	CustomerID string `json:"customerId" binding:"required,notblank" label:"Customer ID"`
	Password   string `json:"password" binding:"required" label:"Password"`
}

// Validator checks forms against their rules.
type Validator struct {
	v *validator.Validate
}

// New returns a validator with the ATM rules registered.
func New() *Validator {
	v := validator.New()
	v.SetTagName(TagName)
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// RegisterRules adds the custom rules and label lookup to v. The API calls
// it on gin's validator engine.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return nil
}

// Check validates every field of form.
func (val *Validator) Check(form any) error {
	return val.v.Struct(form)
}

// CheckField validates a single named field of form, so the console can
// re-prompt one answer at a time.
func (val *Validator) CheckField(form any, field string) error {
	return val.v.StructPartial(form, field)
}

// Messages turns a validation error into one readable line per failed
// rule. Anything that is not a validation error is reported as a bad body.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid request body"}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s digits", field, fe.Param())
	case "number":
		return field + " must contain digits only"
	case "contains":
		return fmt.Sprintf("%s must contain %q", field, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, strings.TrimSpace(fe.Tag()))
}
