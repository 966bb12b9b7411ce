package types

import (
	"fmt"

	"github.com/0x-tools/ordersim/domain"
)

// MissingFieldError is returned when a required order field is absent from the request.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e MissingFieldError) Unwrap() error {
	return domain.ErrBadParamInput
}

// NegativeAmountError is returned when an order amount is negative.
type NegativeAmountError struct {
	Field string
	Value string
}

func (e NegativeAmountError) Error() string {
	return fmt.Sprintf("%s must not be negative, was %s", e.Field, e.Value)
}

func (e NegativeAmountError) Unwrap() error {
	return domain.ErrBadParamInput
}

// RequestBodyError is returned when the request body cannot be decoded.
type RequestBodyError struct {
	Err error
}

func (e RequestBodyError) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e RequestBodyError) Unwrap() []error {
	return []error{domain.ErrBadParamInput, e.Err}
}
