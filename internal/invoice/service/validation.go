package service

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/invoice-dashboard/internal/invoice/domain"
)

const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgAmountTooLarge = "Amount is too large."
	MsgSelectStatus   = "Please select an invoice status."
	MsgIDRequired     = "Invoice id is required."
)

// The amount ceiling keeps amount*100 inside int64.
type invoiceInput struct {
	CustomerID string  `form:"customerId" validate:"required"`
	Amount     float64 `form:"amount" validate:"gt=0,lte=9e16"`
	Status     string  `form:"status" validate:"required,oneof=pending paid"`
}

// Fields is a validated submission with the amount already in minor units.
type Fields struct {
	CustomerID string
	Amount     int64
	Status     domain.Status
}

// InvoiceValidator checks a raw invoice form. It holds no per-call state and
// is safe for concurrent use.
type InvoiceValidator struct {
	validate *validator.Validate
}

func NewInvoiceValidator() *InvoiceValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InvoiceValidator{validate: v}
}

// Validate coerces and checks every field. It returns the validated fields
// when errs is empty; errs lists every failing field otherwise.
func (iv *InvoiceValidator) Validate(form Form) (Fields, FieldErrors) {
	input := invoiceInput{
		CustomerID: form.Get(FieldCustomerID),
		Amount:     coerceAmount(form.Get(FieldAmount)),
		Status:     form.Get(FieldStatus),
	}

	errs := FieldErrors{}
	if err := iv.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.add(FieldCustomerID, MsgSelectCustomer)
			return Fields{}, errs
		}
		for _, fe := range verrs {
			errs.add(fe.Field(), messageFor(fe))
		}
	}

	if len(errs) > 0 {
		return Fields{}, errs
	}

	// Sub-cent amounts pass the positivity rule and round to 0 minor units.
	return Fields{
		CustomerID: input.CustomerID,
		Amount:     int64(math.Round(input.Amount * 100)),
		Status:     domain.Status(input.Status),
	}, nil
}

// coerceAmount parses the raw amount. Anything that is not a finite number
// becomes 0 so the positivity rule rejects it.
func coerceAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return amount
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case FieldCustomerID:
		return MsgSelectCustomer
	case FieldAmount:
		if fe.Tag() == "lte" {
			return MsgAmountTooLarge
		}
		return MsgAmountPositive
	case FieldStatus:
		return MsgSelectStatus
	default:
		return fe.Error()
	}
}

func (e FieldErrors) add(field, message string) {
	for _, existing := range e[field] {
		if existing == message {
			return
		}
	}
	e[field] = append(e[field], message)
}
