package orderhash_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/require"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/orderhash"
)

var exchangeAddress = common.HexToAddress("0x61935cbdd02287b511119ddb11aeb42f1593b7ef")

func newOrder() domain.Order {
	return domain.Order{
		ChainID:               1,
		ExchangeAddress:       exchangeAddress,
		MakerAddress:          common.HexToAddress("0x5409ed021d9299bf6814279a6a1411a7e866a631"),
		TakerAddress:          common.Address{},
		FeeRecipientAddress:   common.HexToAddress("0x6ecbe1db9ef729cbe972c83fb886247691fb6beb"),
		SenderAddress:         common.Address{},
		MakerAssetAmount:      osmomath.NewInt(10),
		TakerAssetAmount:      osmomath.NewInt(10_000_000_000_000_000),
		MakerFee:              osmomath.NewInt(1),
		TakerFee:              osmomath.NewInt(2),
		ExpirationTimeSeconds: osmomath.NewInt(1_700_000_000),
		Salt:                  osmomath.NewInt(123456789),
		MakerAssetData:        hexutil.MustDecode("0xf47261b00000000000000000000000001dc4c1cefef38a777b15aa20260a54e584b16c48"),
		TakerAssetData:        hexutil.MustDecode("0xf47261b00000000000000000000000000b1ba0af832d7c05fd64161e0db78e85978e8082"),
		MakerFeeAssetData:     hexutil.MustDecode("0xf47261b00000000000000000000000000b1ba0af832d7c05fd64161e0db78e85978e8082"),
		TakerFeeAssetData:     []byte{},
	}
}

// typedData builds the same order as go-ethereum typed data so the hand rolled encoding can be checked against it.
func typedData(order domain.Order) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": {
				{Name: "makerAddress", Type: "address"},
				{Name: "takerAddress", Type: "address"},
				{Name: "feeRecipientAddress", Type: "address"},
				{Name: "senderAddress", Type: "address"},
				{Name: "makerAssetAmount", Type: "uint256"},
				{Name: "takerAssetAmount", Type: "uint256"},
				{Name: "makerFee", Type: "uint256"},
				{Name: "takerFee", Type: "uint256"},
				{Name: "expirationTimeSeconds", Type: "uint256"},
				{Name: "salt", Type: "uint256"},
				{Name: "makerAssetData", Type: "bytes"},
				{Name: "takerAssetData", Type: "bytes"},
				{Name: "makerFeeAssetData", Type: "bytes"},
				{Name: "takerFeeAssetData", Type: "bytes"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              orderhash.EIP712DomainName,
			Version:           orderhash.EIP712DomainVersion,
			ChainId:           math.NewHexOrDecimal256(int64(order.ChainID)),
			VerifyingContract: order.ExchangeAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"makerAddress":          order.MakerAddress.Hex(),
			"takerAddress":          order.TakerAddress.Hex(),
			"feeRecipientAddress":   order.FeeRecipientAddress.Hex(),
			"senderAddress":         order.SenderAddress.Hex(),
			"makerAssetAmount":      order.MakerAssetAmount.String(),
			"takerAssetAmount":      order.TakerAssetAmount.String(),
			"makerFee":              order.MakerFee.String(),
			"takerFee":              order.TakerFee.String(),
			"expirationTimeSeconds": order.ExpirationTimeSeconds.String(),
			"salt":                  order.Salt.String(),
			"makerAssetData":        hexutil.Encode(order.MakerAssetData),
			"takerAssetData":        hexutil.Encode(order.TakerAssetData),
			"makerFeeAssetData":     hexutil.Encode(order.MakerFeeAssetData),
			"takerFeeAssetData":     hexutil.Encode(order.TakerFeeAssetData),
		},
	}
}

func TestGetOrderHashMatchesTypedData(t *testing.T) {
	withChain := func(o domain.Order, chainID uint64) domain.Order {
		o.ChainID = chainID
		return o
	}
	withSalt := func(o domain.Order, salt int64) domain.Order {
		o.Salt = osmomath.NewInt(salt)
		return o
	}

	tests := []struct {
		name  string
		order domain.Order
	}{
		{name: "mainnet order", order: newOrder()},
		{name: "other chain", order: withChain(newOrder(), 1337)},
		{name: "other salt", order: withSalt(newOrder(), 42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, _, err := apitypes.TypedDataAndHash(typedData(tt.order))
			require.NoError(t, err)

			actual, err := orderhash.GetOrderHash(tt.order)
			require.NoError(t, err)
			require.Equal(t, common.BytesToHash(expected), actual)
		})
	}
}

func TestDomainSeparatorMatchesTypedData(t *testing.T) {
	order := newOrder()
	data := typedData(order)

	expected, err := data.HashStruct("EIP712Domain", data.Domain.Map())
	require.NoError(t, err)

	require.Equal(t, common.BytesToHash(expected), orderhash.DomainSeparator(order.ChainID, order.ExchangeAddress))
}

func TestGetOrderHashIsFieldSensitive(t *testing.T) {
	order := newOrder()
	base, err := orderhash.GetOrderHash(order)
	require.NoError(t, err)

	order.TakerAssetAmount = osmomath.NewInt(1)
	changed, err := orderhash.GetOrderHash(order)
	require.NoError(t, err)
	require.NotEqual(t, base, changed)

	order = newOrder()
	order.ExchangeAddress = common.HexToAddress("0x1")
	changed, err = orderhash.GetOrderHash(order)
	require.NoError(t, err)
	require.NotEqual(t, base, changed)
}

func TestGetOrderHashUnsetAmountsHashAsZero(t *testing.T) {
	order := newOrder()
	order.MakerFee = osmomath.Int{}
	unset, err := orderhash.GetOrderHash(order)
	require.NoError(t, err)

	order.MakerFee = osmomath.ZeroInt()
	zero, err := orderhash.GetOrderHash(order)
	require.NoError(t, err)

	require.Equal(t, zero, unset)
}
