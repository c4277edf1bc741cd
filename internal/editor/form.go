package editor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/michaelanot/GameList/internal/catalog"
)

// Form is the validated shape of an entry.
type Form struct {
	Name      string              `json:"name" validate:"required,min=2"`
	Console   string              `json:"console" validate:"required,console"`
	PriceBuy  decimal.NullDecimal `json:"priceBuy" validate:"omitempty,gte=0"`
	PriceSell decimal.NullDecimal `json:"priceSell" validate:"omitempty,gte=0"`
	Jacket    *catalog.Image      `json:"jacket" validate:"-"`
	JacketURL string              `json:"jacketUrl" validate:"omitempty,url,excluded_with=Jacket"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(nullDecimalValue, decimal.NullDecimal{})
	if err := v.RegisterValidation("console", validConsole); err != nil {
		panic(fmt.Sprintf("register console validation: %v", err))
	}
	return v
}

// nullDecimalValue exposes a nullable price to numeric tags. Null prices
// yield nil, which omitempty skips.
func nullDecimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.NullDecimal); ok && d.Valid {
		return d.Decimal.InexactFloat64()
	}
	return nil
}

func validConsole(fl validator.FieldLevel) bool {
	_, err := catalog.ParseConsole(fl.Field().String())
	return err == nil
}

// Validate checks the form with its name trimmed. A failure is returned as
// *ValidationError.
func (f Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.JacketURL = strings.TrimSpace(f.JacketURL)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return &ValidationError{errs: ve}
	}
	return fmt.Errorf("validate entry: %w", err)
}

// ValidationError reports every rule an entry broke.
type ValidationError struct {
	errs validator.ValidationErrors
}

// Fields maps each invalid field to the rule it failed ("name" → "min").
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.errs))
	for _, fe := range e.errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func (e *ValidationError) Error() string {
	fields := e.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, describe(name, fields[name]))
	}
	return "invalid entry: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.errs
}

func describe(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least 2 characters"
	case "console":
		return fmt.Sprintf("%s must be one of %v", field, catalog.Consoles)
	case "gte":
		return field + " must not be negative"
	case "url":
		return field + " must be a valid URL"
	case "excluded_with":
		return field + " cannot be set together with an image"
	default:
		return fmt.Sprintf("%s failed %s", field, tag)
	}
}
