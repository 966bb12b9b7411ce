package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
)

// GetStatusCode returns status code given error
func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var exchangeErr ExchangeError
	if errors.As(err, &exchangeErr) {
		return http.StatusBadRequest
	}

	var staleErr StaleHeightError
	if errors.As(err, &staleErr) {
		return http.StatusServiceUnavailable
	}

	switch {
	case errors.Is(err, ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string              `json:"message"`
	Code    ExchangeContractErr `json:"code,omitempty"`
}

// NewResponseError builds the response body for err, attaching the exchange error code when there is one.
func NewResponseError(err error) ResponseError {
	resp := ResponseError{Message: err.Error()}

	var exchangeErr ExchangeError
	if errors.As(err, &exchangeErr) {
		resp.Code = exchangeErr.ExchangeContractErr()
	}

	return resp
}

// AmountOverflowError is returned when an amount does not fit in 256 bits.
type AmountOverflowError struct {
	Value string
}

func (e AmountOverflowError) Error() string {
	return fmt.Sprintf("amount overflows 256 bits: %s", e.Value)
}

// FetchError wraps a failure of an on-chain lookup.
type FetchError struct {
	Method string
	Err    error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Method, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// StaleHeightError is returned when the latest block number has not advanced for too long.
type StaleHeightError struct {
	StoredHeight            uint64
	TimeSinceLastUpdate     int
	MaxAllowedTimeDeltaSecs int
}

func (e StaleHeightError) Error() string {
	return fmt.Sprintf("latest block number (%d) has not been updated for %d seconds, max allowed is %d seconds", e.StoredHeight, e.TimeSinceLastUpdate, e.MaxAllowedTimeDeltaSecs)
}
