package resource

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldID is the hidden form field holding the id of the record being edited.
const FieldID = "id"

// Form holds raw form values keyed by field name.
type Form map[string]string

func (f Form) Get(name string) string { return strings.TrimSpace(f[name]) }

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name        string
	Label       string
	Required    bool
	Secret      bool
	Placeholder string
	Options     []Option
}

// ValidationError reports client-side input that cannot be sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a payload struct against its validate tags and converts
// the first failure into a *ValidationError.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: field + " is required"}
	case "email":
		return &ValidationError{Field: field, Message: field + " must be a valid email address"}
	case "gte":
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be at least %s", field, fe.Param())}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())}
	}
}

func requiredInt(f Form, name string) (int, error) {
	raw := f.Get(name)
	if raw == "" {
		return 0, &ValidationError{Field: name, Message: name + " is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: name + " must be a whole number"}
	}
	return n, nil
}

func requiredDecimal(f Form, name string) (decimal.Decimal, error) {
	raw := strings.TrimPrefix(f.Get(name), "$")
	if raw == "" {
		return decimal.Zero, &ValidationError{Field: name, Message: name + " is required"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: name, Message: name + " must be a number"}
	}
	return d, nil
}
