package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

var binder = &echo.DefaultBinder{}

func bindBody(c echo.Context, dest interface{}) error {
	if err := binder.BindBody(c, dest); err != nil {
		return RequestBodyError{Err: err}
	}
	return nil
}

// GetOrderStateRequest is the body of /orders/state and /orders/relevant-state: a single signed order.
type GetOrderStateRequest struct {
	Order domain.SignedOrder
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetOrderStateRequest.
func (r *GetOrderStateRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return bindBody(c, &r.Order)
}

// Validate validates the GetOrderStateRequest.
func (r *GetOrderStateRequest) Validate() error {
	return ValidateSignedOrder(r.Order)
}

// GetOrderStatesRequest is the body of /orders/states: a list of signed orders.
type GetOrderStatesRequest struct {
	Orders []domain.SignedOrder
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetOrderStatesRequest.
func (r *GetOrderStatesRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return bindBody(c, &r.Orders)
}

// Validate validates the GetOrderStatesRequest.
func (r *GetOrderStatesRequest) Validate() error {
	for i, order := range r.Orders {
		if err := ValidateSignedOrder(order); err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
	}
	return nil
}

// GetMaxFillableRequest is the body of /orders/fillable.
type GetMaxFillableRequest struct {
	Order        domain.SignedOrder `json:"order"`
	TakerAddress common.Address     `json:"takerAddress"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to GetMaxFillableRequest.
func (r *GetMaxFillableRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return bindBody(c, r)
}

// Validate validates the GetMaxFillableRequest.
func (r *GetMaxFillableRequest) Validate() error {
	return ValidateSignedOrder(r.Order)
}

// ValidateOrderRequest is the body of /orders/validate.
// With a taker address the fill is validated as that taker would submit it,
// otherwise the order is checked for being fillable by anyone.
type ValidateOrderRequest struct {
	Order                domain.SignedOrder `json:"order"`
	FillTakerAssetAmount *osmomath.Int      `json:"fillTakerAssetAmount,omitempty"`
	TakerAddress         *common.Address    `json:"takerAddress,omitempty"`
}

// UnmarshalHTTPRequest unmarshals the HTTP request to ValidateOrderRequest.
func (r *ValidateOrderRequest) UnmarshalHTTPRequest(c echo.Context) error {
	return bindBody(c, r)
}

// Validate validates the ValidateOrderRequest.
func (r *ValidateOrderRequest) Validate() error {
	if err := ValidateSignedOrder(r.Order); err != nil {
		return err
	}

	if r.FillTakerAssetAmount != nil {
		if r.FillTakerAssetAmount.IsNil() {
			return MissingFieldError{Field: "fillTakerAssetAmount"}
		}
		if r.FillTakerAssetAmount.IsNegative() {
			return NegativeAmountError{Field: "fillTakerAssetAmount", Value: r.FillTakerAssetAmount.String()}
		}
	}

	if r.TakerAddress != nil && r.FillTakerAssetAmount == nil {
		return MissingFieldError{Field: "fillTakerAssetAmount"}
	}

	return nil
}

// ValidateOrderResponse is returned by /orders/validate when the fill would succeed.
type ValidateOrderResponse struct {
	Fillable             bool          `json:"fillable"`
	FillTakerAssetAmount *osmomath.Int `json:"fillTakerAssetAmount,omitempty"`
}

// MaxFillableResponse is returned by /orders/fillable.
type MaxFillableResponse struct {
	OrderHash                   common.Hash  `json:"orderHash"`
	MaxFillableTakerAssetAmount osmomath.Int `json:"maxFillableTakerAssetAmount"`
}

// ValidateSignedOrder checks that every amount of order is present and not negative
// and that its asset data and signature are set.
func ValidateSignedOrder(order domain.SignedOrder) error {
	for _, amount := range []struct {
		field string
		value osmomath.Int
	}{
		{"makerAssetAmount", order.MakerAssetAmount},
		{"takerAssetAmount", order.TakerAssetAmount},
		{"makerFee", order.MakerFee},
		{"takerFee", order.TakerFee},
		{"expirationTimeSeconds", order.ExpirationTimeSeconds},
		{"salt", order.Salt},
	} {
		if amount.value.IsNil() {
			return MissingFieldError{Field: amount.field}
		}
		if amount.value.IsNegative() {
			return NegativeAmountError{Field: amount.field, Value: amount.value.String()}
		}
	}

	if len(order.MakerAssetData) == 0 {
		return MissingFieldError{Field: "makerAssetData"}
	}
	if len(order.TakerAssetData) == 0 {
		return MissingFieldError{Field: "takerAssetData"}
	}
	if len(order.Signature) == 0 {
		return MissingFieldError{Field: "signature"}
	}

	return nil
}
