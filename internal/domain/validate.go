package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload or filter fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds at least one field error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// decimalColumn bounds a decimal field to what the persistent column can hold.
type decimalColumn struct {
	intDigits     int32
	scale         int32
	allowNegative bool
}

var (
	priceColumn       = decimalColumn{intDigits: 10, scale: 8}
	amountColumn      = decimalColumn{intDigits: 16, scale: 2}
	priceChangeColumn = decimalColumn{intDigits: 8, scale: 2, allowNegative: true}
)

func (c decimalColumn) check(ve *ValidationError, field string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	if !c.allowNegative && d.IsNegative() {
		ve.Add(field, "must not be negative")
		return
	}
	if !d.Equal(d.Round(c.scale)) {
		ve.Add(field, fmt.Sprintf("must have at most %d decimal places", c.scale))
		return
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, c.intDigits)) {
		ve.Add(field, fmt.Sprintf("must have at most %d integer digits", c.intDigits))
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateStruct runs tag validation and collects failures into ve.
func validateStruct(ve *ValidationError, v any) {
	err := validatorInstance().Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.Add("", err.Error())
		return
	}
	for _, fe := range verrs {
		ve.Add(fe.Field(), tagMessage(fe))
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func checkNonEmpty(ve *ValidationError, field string, s *string) {
	if s != nil && *s == "" {
		ve.Add(field, "must not be empty")
	}
}

// ValidateTokenInput checks a create payload.
func ValidateTokenInput(in *TokenInput) error {
	ve := &ValidationError{}
	validateStruct(ve, in)
	priceColumn.check(ve, "price", in.Price)
	amountColumn.check(ve, "marketCap", in.MarketCap)
	amountColumn.check(ve, "volume24h", in.Volume24h)
	priceChangeColumn.check(ve, "priceChange24h", in.PriceChange24h)
	return ve.OrNil()
}

// ValidateTokenPatch checks a partial update payload.
func ValidateTokenPatch(p *TokenPatch) error {
	ve := &ValidationError{}
	validateStruct(ve, p)
	checkNonEmpty(ve, "symbol", p.Symbol)
	checkNonEmpty(ve, "name", p.Name)
	checkNonEmpty(ve, "address", p.Address)
	checkNonEmpty(ve, "platform", p.Platform)
	if p.Category != nil && !p.Category.Valid() {
		ve.Add("category", "must be one of: new, completing, completed, trending")
	}
	priceColumn.check(ve, "price", p.Price)
	amountColumn.check(ve, "marketCap", p.MarketCap)
	amountColumn.check(ve, "volume24h", p.Volume24h)
	priceChangeColumn.check(ve, "priceChange24h", p.PriceChange24h)
	return ve.OrNil()
}

// ValidateAlertInput checks an alert create payload.
func ValidateAlertInput(in *AlertInput) error {
	ve := &ValidationError{}
	validateStruct(ve, in)
	return ve.OrNil()
}

// ValidateUserInput checks a user create payload.
func ValidateUserInput(in *UserInput) error {
	ve := &ValidationError{}
	validateStruct(ve, in)
	return ve.OrNil()
}
