package assetdata

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ProxyID is the 4 byte selector that prefixes encoded asset data and names the proxy that moves the asset.
type ProxyID [4]byte

var (
	ERC20ProxyID       = ProxyID{0xf4, 0x72, 0x61, 0xb0}
	ERC721ProxyID      = ProxyID{0x02, 0x57, 0x17, 0x92}
	ERC1155ProxyID     = ProxyID{0xa7, 0xcb, 0x5f, 0xb7}
	MultiAssetProxyID  = ProxyID{0x94, 0xcf, 0xcd, 0xd7}
	StaticCallProxyID  = ProxyID{0xc3, 0x39, 0xd1, 0x0a}
	ERC20BridgeProxyID = ProxyID{0xdc, 0x16, 0x00, 0xf3}
)

// ProxyIDLength is the length of the selector prefix.
const ProxyIDLength = 4

// MaxNestingDepth bounds how many MultiAsset levels are followed when decoding or transferring.
const MaxNestingDepth = 8

func (p ProxyID) String() string {
	return hexutil.Encode(p[:])
}

// AssetData is one of the asset data variants. The set is closed:
// ERC20AssetData, ERC20BridgeAssetData, ERC721AssetData, ERC1155AssetData, MultiAssetData and StaticCallAssetData.
type AssetData interface {
	ProxyID() ProxyID
	isAssetData()
}

var (
	_ AssetData = ERC20AssetData{}
	_ AssetData = ERC20BridgeAssetData{}
	_ AssetData = ERC721AssetData{}
	_ AssetData = ERC1155AssetData{}
	_ AssetData = MultiAssetData{}
	_ AssetData = StaticCallAssetData{}
)

// ERC20AssetData describes a fungible token.
type ERC20AssetData struct {
	TokenAddress common.Address
}

// ERC20BridgeAssetData describes a fungible token sourced through a bridge contract.
type ERC20BridgeAssetData struct {
	TokenAddress  common.Address
	BridgeAddress common.Address
	BridgeData    []byte
}

// ERC721AssetData describes a single non fungible token.
type ERC721AssetData struct {
	TokenAddress common.Address
	TokenID      *big.Int
}

// ERC1155AssetData describes a bundle of ERC1155 tokens. TokenValues are per unit of the order amount.
type ERC1155AssetData struct {
	TokenAddress common.Address
	TokenIDs     []*big.Int
	TokenValues  []*big.Int
	CallbackData []byte
}

// MultiAssetData is a basket. Each nested asset moves Amounts[i] units per unit of the outer amount.
// Nested entries are kept encoded and may themselves be any variant.
type MultiAssetData struct {
	Amounts         []*big.Int
	NestedAssetData [][]byte
}

// StaticCallAssetData is a precondition check rather than a transfer.
type StaticCallAssetData struct {
	CallTarget     common.Address
	StaticCallData []byte
	CallResultHash common.Hash
}

func (ERC20AssetData) ProxyID() ProxyID       { return ERC20ProxyID }
func (ERC20BridgeAssetData) ProxyID() ProxyID { return ERC20BridgeProxyID }
func (ERC721AssetData) ProxyID() ProxyID      { return ERC721ProxyID }
func (ERC1155AssetData) ProxyID() ProxyID     { return ERC1155ProxyID }
func (MultiAssetData) ProxyID() ProxyID       { return MultiAssetProxyID }
func (StaticCallAssetData) ProxyID() ProxyID  { return StaticCallProxyID }

func (ERC20AssetData) isAssetData()       {}
func (ERC20BridgeAssetData) isAssetData() {}
func (ERC721AssetData) isAssetData()      {}
func (ERC1155AssetData) isAssetData()     {}
func (MultiAssetData) isAssetData()       {}
func (StaticCallAssetData) isAssetData()  {}

// NestedAsset is one leaf of a recursively decoded MultiAsset.
type NestedAsset struct {
	// Amount is the product of the per unit amounts along the path to this leaf.
	Amount    *big.Int
	AssetData AssetData
	Encoded   []byte
}
