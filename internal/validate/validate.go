package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"fieldops-console/internal/gateway"
	"fieldops-console/internal/modal"
)

var (
	mobilePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	passwordSymbols = "@$!%*?&"
)

var ErrPasswordRequired = errors.New("password is required")

// New returns a validator with the console's custom rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("indian_mobile", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("known_role", func(fl validator.FieldLevel) bool {
		return modal.Role(fl.Field().String()).Known()
	})
	return v
}

// StrongPassword requires at least eight characters drawn from letters,
// digits and @$!%*?&, with at least one of each class.
func StrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: New()}
}

// Struct validates s and flattens the failures into one readable error.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Employee validates an employee form. The password is required on create
// and optional on update.
func (val *Validator) Employee(in gateway.EmployeeInput, create bool) error {
	if create && strings.TrimSpace(in.Password) == "" {
		return ErrPasswordRequired
	}
	return val.Struct(in)
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "indian_mobile":
		return "Enter valid Indian mobile number"
	case "strong_password":
		return "Password must be 8+ chars with uppercase, lowercase, number & special char"
	case "known_role":
		return fmt.Sprintf("%s %q is not a known role", name, fe.Value())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", name, map[string]string{"gt": "greater than", "gte": "at least"}[fe.Tag()], fe.Param())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}
