package http

import (
	"github.com/labstack/echo/v4"
)

// RequestUnmarshaler decodes an HTTP request into itself.
type RequestUnmarshaler interface {
	UnmarshalHTTPRequest(c echo.Context) error
}

// Validator is implemented by requests that check their own fields once decoded.
type Validator interface {
	Validate() error
}

// ParseRequest decodes the request into req and validates it when req implements Validator.
func ParseRequest(c echo.Context, req RequestUnmarshaler) error {
	if err := req.UnmarshalHTTPRequest(c); err != nil {
		return err
	}

	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}
