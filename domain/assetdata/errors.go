package assetdata

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0x-tools/ordersim/domain"
)

var (
	_ domain.ExchangeError = UnknownAssetProxyIDError{}
	_ domain.ExchangeError = WrongAssetProxyIDError{}
	_ domain.ExchangeError = InvalidAssetDataError{}
	_ domain.ExchangeError = MaxNestingDepthExceededError{}
)

// UnknownAssetProxyIDError is returned when the selector prefix matches no variant.
type UnknownAssetProxyIDError struct {
	ProxyID ProxyID
}

func (e UnknownAssetProxyIDError) ExchangeContractErr() domain.ExchangeContractErr {
	return domain.ErrCodeUnknownAssetProxyID
}

func (e UnknownAssetProxyIDError) Error() string {
	return fmt.Sprintf("unknown asset proxy id %s", e.ProxyID)
}

// WrongAssetProxyIDError is returned when asset data is decoded as a variant it does not encode.
type WrongAssetProxyIDError struct {
	Expected ProxyID
	Actual   ProxyID
}

func (e WrongAssetProxyIDError) ExchangeContractErr() domain.ExchangeContractErr {
	return domain.ErrCodeInvalidAssetData
}

func (e WrongAssetProxyIDError) Error() string {
	return fmt.Sprintf("expected asset proxy id %s, got %s", e.Expected, e.Actual)
}

// InvalidAssetDataError is returned when asset data is too short or its body does not decode.
type InvalidAssetDataError struct {
	AssetData []byte
	Err       error
}

func (e InvalidAssetDataError) ExchangeContractErr() domain.ExchangeContractErr {
	return domain.ErrCodeInvalidAssetData
}

func (e InvalidAssetDataError) Error() string {
	return fmt.Sprintf("invalid asset data %s: %v", hexutil.Encode(e.AssetData), e.Err)
}

func (e InvalidAssetDataError) Unwrap() error {
	return e.Err
}

// MaxNestingDepthExceededError is returned when MultiAsset data nests deeper than MaxNestingDepth.
type MaxNestingDepthExceededError struct {
	MaxDepth int
}

func (e MaxNestingDepthExceededError) ExchangeContractErr() domain.ExchangeContractErr {
	return domain.ErrCodeInvalidAssetData
}

func (e MaxNestingDepthExceededError) Error() string {
	return fmt.Sprintf("multi asset data nested deeper than %d levels", e.MaxDepth)
}
