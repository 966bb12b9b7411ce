package assetdata

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	addressType      = mustNewType("address")
	uint256Type      = mustNewType("uint256")
	uint256ArrayType = mustNewType("uint256[]")
	bytesType        = mustNewType("bytes")
	bytesArrayType   = mustNewType("bytes[]")
	bytes32Type      = mustNewType("bytes32")

	erc20Arguments       = abi.Arguments{{Type: addressType}}
	erc20BridgeArguments = abi.Arguments{{Type: addressType}, {Type: addressType}, {Type: bytesType}}
	erc721Arguments      = abi.Arguments{{Type: addressType}, {Type: uint256Type}}
	erc1155Arguments     = abi.Arguments{{Type: addressType}, {Type: uint256ArrayType}, {Type: uint256ArrayType}, {Type: bytesType}}
	multiAssetArguments  = abi.Arguments{{Type: uint256ArrayType}, {Type: bytesArrayType}}
	staticCallArguments  = abi.Arguments{{Type: addressType}, {Type: bytesType}, {Type: bytes32Type}}
)

var errTooShort = errors.New("asset data shorter than proxy id")

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Encode returns the proxy id followed by the ABI encoded fields of assetData.
func Encode(assetData AssetData) ([]byte, error) {
	var (
		packed []byte
		err    error
	)

	switch a := assetData.(type) {
	case ERC20AssetData:
		packed, err = erc20Arguments.Pack(a.TokenAddress)
	case ERC20BridgeAssetData:
		packed, err = erc20BridgeArguments.Pack(a.TokenAddress, a.BridgeAddress, nonNilBytes(a.BridgeData))
	case ERC721AssetData:
		if a.TokenID == nil {
			return nil, errors.New("erc721 asset data has no token id")
		}
		packed, err = erc721Arguments.Pack(a.TokenAddress, a.TokenID)
	case ERC1155AssetData:
		packed, err = erc1155Arguments.Pack(a.TokenAddress, nonNilInts(a.TokenIDs), nonNilInts(a.TokenValues), nonNilBytes(a.CallbackData))
	case MultiAssetData:
		if len(a.Amounts) != len(a.NestedAssetData) {
			return nil, fmt.Errorf("multi asset data has %d amounts and %d nested entries", len(a.Amounts), len(a.NestedAssetData))
		}
		nested := a.NestedAssetData
		if nested == nil {
			nested = [][]byte{}
		}
		packed, err = multiAssetArguments.Pack(nonNilInts(a.Amounts), nested)
	case StaticCallAssetData:
		packed, err = staticCallArguments.Pack(a.CallTarget, nonNilBytes(a.StaticCallData), [32]byte(a.CallResultHash))
	default:
		return nil, fmt.Errorf("unsupported asset data type %T", assetData)
	}
	if err != nil {
		return nil, err
	}

	proxyID := assetData.ProxyID()
	return append(proxyID[:], packed...), nil
}

// MustEncode is like Encode but panics on error. Meant for constants and tests.
func MustEncode(assetData AssetData) []byte {
	encoded, err := Encode(assetData)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeProxyID returns the selector prefix of encoded asset data.
func DecodeProxyID(assetData []byte) (ProxyID, error) {
	if len(assetData) < ProxyIDLength {
		return ProxyID{}, InvalidAssetDataError{AssetData: assetData, Err: errTooShort}
	}

	var proxyID ProxyID
	copy(proxyID[:], assetData[:ProxyIDLength])
	return proxyID, nil
}

// Decode decodes asset data into the variant its proxy id selects.
// MultiAsset nested entries are left encoded; use DecodeMultiAssetRecursively to follow them.
func Decode(assetData []byte) (AssetData, error) {
	proxyID, err := DecodeProxyID(assetData)
	if err != nil {
		return nil, err
	}

	switch proxyID {
	case ERC20ProxyID:
		return DecodeERC20(assetData)
	case ERC20BridgeProxyID:
		return DecodeERC20Bridge(assetData)
	case ERC721ProxyID:
		return DecodeERC721(assetData)
	case ERC1155ProxyID:
		return DecodeERC1155(assetData)
	case MultiAssetProxyID:
		return DecodeMultiAsset(assetData)
	case StaticCallProxyID:
		return DecodeStaticCall(assetData)
	default:
		return nil, UnknownAssetProxyIDError{ProxyID: proxyID}
	}
}

// DecodeERC20 decodes ERC20 asset data. Any other variant is an error.
func DecodeERC20(assetData []byte) (ERC20AssetData, error) {
	values, err := unpack(assetData, ERC20ProxyID, erc20Arguments)
	if err != nil {
		return ERC20AssetData{}, err
	}

	return ERC20AssetData{
		TokenAddress: values[0].(common.Address),
	}, nil
}

// DecodeERC20Bridge decodes ERC20Bridge asset data. Any other variant is an error.
func DecodeERC20Bridge(assetData []byte) (ERC20BridgeAssetData, error) {
	values, err := unpack(assetData, ERC20BridgeProxyID, erc20BridgeArguments)
	if err != nil {
		return ERC20BridgeAssetData{}, err
	}

	return ERC20BridgeAssetData{
		TokenAddress:  values[0].(common.Address),
		BridgeAddress: values[1].(common.Address),
		BridgeData:    values[2].([]byte),
	}, nil
}

// DecodeERC721 decodes ERC721 asset data. Any other variant is an error.
func DecodeERC721(assetData []byte) (ERC721AssetData, error) {
	values, err := unpack(assetData, ERC721ProxyID, erc721Arguments)
	if err != nil {
		return ERC721AssetData{}, err
	}

	return ERC721AssetData{
		TokenAddress: values[0].(common.Address),
		TokenID:      values[1].(*big.Int),
	}, nil
}

// DecodeERC1155 decodes ERC1155 asset data. Any other variant is an error.
func DecodeERC1155(assetData []byte) (ERC1155AssetData, error) {
	values, err := unpack(assetData, ERC1155ProxyID, erc1155Arguments)
	if err != nil {
		return ERC1155AssetData{}, err
	}

	return ERC1155AssetData{
		TokenAddress: values[0].(common.Address),
		TokenIDs:     values[1].([]*big.Int),
		TokenValues:  values[2].([]*big.Int),
		CallbackData: values[3].([]byte),
	}, nil
}

// DecodeMultiAsset decodes one level of MultiAsset data. Any other variant is an error.
func DecodeMultiAsset(assetData []byte) (MultiAssetData, error) {
	values, err := unpack(assetData, MultiAssetProxyID, multiAssetArguments)
	if err != nil {
		return MultiAssetData{}, err
	}

	multiAsset := MultiAssetData{
		Amounts:         values[0].([]*big.Int),
		NestedAssetData: values[1].([][]byte),
	}
	if len(multiAsset.Amounts) != len(multiAsset.NestedAssetData) {
		return MultiAssetData{}, InvalidAssetDataError{
			AssetData: assetData,
			Err:       fmt.Errorf("%d amounts for %d nested entries", len(multiAsset.Amounts), len(multiAsset.NestedAssetData)),
		}
	}

	return multiAsset, nil
}

// DecodeStaticCall decodes StaticCall asset data. Any other variant is an error.
func DecodeStaticCall(assetData []byte) (StaticCallAssetData, error) {
	values, err := unpack(assetData, StaticCallProxyID, staticCallArguments)
	if err != nil {
		return StaticCallAssetData{}, err
	}

	return StaticCallAssetData{
		CallTarget:     values[0].(common.Address),
		StaticCallData: values[1].([]byte),
		CallResultHash: common.Hash(values[2].([32]byte)),
	}, nil
}

// DecodeMultiAssetRecursively flattens MultiAsset data into its leaves.
// Nested MultiAssets are followed up to MaxNestingDepth levels and their amounts multiplied along the way.
// Every leaf must decode as a known variant.
func DecodeMultiAssetRecursively(assetData []byte) ([]NestedAsset, error) {
	return decodeMultiAssetRecursively(assetData, 1)
}

func decodeMultiAssetRecursively(assetData []byte, depth int) ([]NestedAsset, error) {
	if depth > MaxNestingDepth {
		return nil, MaxNestingDepthExceededError{MaxDepth: MaxNestingDepth}
	}

	multiAsset, err := DecodeMultiAsset(assetData)
	if err != nil {
		return nil, err
	}

	leaves := make([]NestedAsset, 0, len(multiAsset.NestedAssetData))
	for i, nested := range multiAsset.NestedAssetData {
		amount := multiAsset.Amounts[i]

		decoded, err := Decode(nested)
		if err != nil {
			return nil, err
		}

		if _, ok := decoded.(MultiAssetData); !ok {
			leaves = append(leaves, NestedAsset{Amount: amount, AssetData: decoded, Encoded: nested})
			continue
		}

		nestedLeaves, err := decodeMultiAssetRecursively(nested, depth+1)
		if err != nil {
			return nil, err
		}

		for _, leaf := range nestedLeaves {
			leaf.Amount = new(big.Int).Mul(leaf.Amount, amount)
			leaves = append(leaves, leaf)
		}
	}

	return leaves, nil
}

func unpack(assetData []byte, expected ProxyID, arguments abi.Arguments) ([]interface{}, error) {
	proxyID, err := DecodeProxyID(assetData)
	if err != nil {
		return nil, err
	}

	if proxyID != expected {
		return nil, WrongAssetProxyIDError{Expected: expected, Actual: proxyID}
	}

	values, err := arguments.Unpack(assetData[ProxyIDLength:])
	if err != nil {
		return nil, InvalidAssetDataError{AssetData: assetData, Err: err}
	}

	if len(values) != len(arguments) {
		return nil, InvalidAssetDataError{
			AssetData: assetData,
			Err:       fmt.Errorf("decoded %d values, expected %d", len(values), len(arguments)),
		}
	}

	return values, nil
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func nonNilInts(v []*big.Int) []*big.Int {
	if v == nil {
		return []*big.Int{}
	}
	return v
}
