package orderhash

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

// Exchange v3 EIP-712 domain.
const (
	EIP712DomainName    = "0x Protocol"
	EIP712DomainVersion = "3.0.0"
)

var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	OrderTypeHash = crypto.Keccak256Hash([]byte(
		"Order(address makerAddress,address takerAddress,address feeRecipientAddress,address senderAddress,uint256 makerAssetAmount,uint256 takerAssetAmount,uint256 makerFee,uint256 takerFee,uint256 expirationTimeSeconds,uint256 salt,bytes makerAssetData,bytes takerAssetData,bytes makerFeeAssetData,bytes takerFeeAssetData)",
	))

	eip712Prefix = []byte{0x19, 0x01}
)

var (
	bytes32Type = mustNewType("bytes32")
	uint256Type = mustNewType("uint256")
	addressType = mustNewType("address")

	domainArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	orderArguments = abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // makerAddress
		{Type: addressType}, // takerAddress
		{Type: addressType}, // feeRecipientAddress
		{Type: addressType}, // senderAddress
		{Type: uint256Type}, // makerAssetAmount
		{Type: uint256Type}, // takerAssetAmount
		{Type: uint256Type}, // makerFee
		{Type: uint256Type}, // takerFee
		{Type: uint256Type}, // expirationTimeSeconds
		{Type: uint256Type}, // salt
		{Type: bytes32Type}, // keccak256(makerAssetData)
		{Type: bytes32Type}, // keccak256(takerAssetData)
		{Type: bytes32Type}, // keccak256(makerFeeAssetData)
		{Type: bytes32Type}, // keccak256(takerFeeAssetData)
	}
)

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// DomainSeparator returns the EIP-712 domain separator of the exchange deployed at exchangeAddress.
func DomainSeparator(chainID uint64, exchangeAddress common.Address) common.Hash {
	encoded, err := domainArguments.Pack(
		EIP712DomainTypeHash,
		crypto.Keccak256Hash([]byte(EIP712DomainName)),
		crypto.Keccak256Hash([]byte(EIP712DomainVersion)),
		new(big.Int).SetUint64(chainID),
		exchangeAddress,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// StructHash returns the EIP-712 struct hash of the order fields.
func StructHash(order domain.Order) (common.Hash, error) {
	encoded, err := orderArguments.Pack(
		OrderTypeHash,
		order.MakerAddress,
		order.TakerAddress,
		order.FeeRecipientAddress,
		order.SenderAddress,
		uint256(order.MakerAssetAmount),
		uint256(order.TakerAssetAmount),
		uint256(order.MakerFee),
		uint256(order.TakerFee),
		uint256(order.ExpirationTimeSeconds),
		uint256(order.Salt),
		crypto.Keccak256Hash(order.MakerAssetData),
		crypto.Keccak256Hash(order.TakerAssetData),
		crypto.Keccak256Hash(order.MakerFeeAssetData),
		crypto.Keccak256Hash(order.TakerFeeAssetData),
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode order struct: %w", err)
	}

	return crypto.Keccak256Hash(encoded), nil
}

// GetOrderHash returns the EIP-712 hash the maker signs and the exchange identifies the order by.
func GetOrderHash(order domain.Order) (common.Hash, error) {
	structHash, err := StructHash(order)
	if err != nil {
		return common.Hash{}, err
	}

	return HashTypedData(DomainSeparator(order.ChainID, order.ExchangeAddress), structHash), nil
}

// HashTypedData combines a domain separator and a struct hash into the final EIP-712 digest.
func HashTypedData(domainSeparator, structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(eip712Prefix, domainSeparator.Bytes(), structHash.Bytes())
}

// uint256 maps an unset amount to zero so it can be packed.
func uint256(v osmomath.Int) *big.Int {
	if v.IsNil() {
		return new(big.Int)
	}
	return v.BigInt()
}
