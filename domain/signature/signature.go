package signature

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/0x-tools/ordersim/domain"
)

// Type is the signature type tag carried in the last byte of a signature.
type Type uint8

const (
	Illegal Type = iota
	Invalid
	EIP712
	EthSign
	Wallet
	Validator
	PreSigned
	EIP1271Wallet
	Trezor

	numTypes
)

var typeNames = [numTypes]string{
	Illegal:       "Illegal",
	Invalid:       "Invalid",
	EIP712:        "EIP712",
	EthSign:       "EthSign",
	Wallet:        "Wallet",
	Validator:     "Validator",
	PreSigned:     "PreSigned",
	EIP1271Wallet: "EIP1271Wallet",
	Trezor:        "Trezor",
}

func (t Type) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

const (
	// ecdsaSignatureLength is v (1) + r (32) + s (32) + type (1).
	ecdsaSignatureLength = 66

	ethSignPrefix = "\x19Ethereum Signed Message:\n32"
	trezorPrefix  = "\x19Ethereum Signed Message:\n\x20"
)

// ContractSignatureChecker validates signatures whose validity is decided by a contract:
// wallet, validator, presigned and EIP-1271 signatures.
type ContractSignatureChecker interface {
	IsValidHashSignature(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error)
}

type verifyFunc func(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error)

// Verifier checks order signatures. Signatures with an unknown type tag are invalid.
type Verifier struct {
	contractChecker ContractSignatureChecker
	strategies      map[Type]verifyFunc
}

var _ domain.SignatureVerifier = &Verifier{}

// NewVerifier creates a verifier. Without a contract checker every contract backed signature is invalid.
func NewVerifier(contractChecker ContractSignatureChecker) *Verifier {
	v := &Verifier{contractChecker: contractChecker}

	v.strategies = map[Type]verifyFunc{
		Illegal:       rejectAll,
		Invalid:       rejectAll,
		EIP712:        ecrecoverStrategy(nil),
		EthSign:       ecrecoverStrategy([]byte(ethSignPrefix)),
		Trezor:        ecrecoverStrategy([]byte(trezorPrefix)),
		Wallet:        v.checkWithContract,
		Validator:     v.checkWithContract,
		PreSigned:     v.checkWithContract,
		EIP1271Wallet: v.checkWithContract,
	}

	return v
}

// IsValidSignature implements domain.SignatureVerifier.
func (v *Verifier) IsValidSignature(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error) {
	if len(signature) == 0 {
		return false, nil
	}

	strategy, ok := v.strategies[Type(signature[len(signature)-1])]
	if !ok {
		return false, nil
	}

	return strategy(ctx, hash, signerAddress, signature)
}

func (v *Verifier) checkWithContract(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error) {
	if v.contractChecker == nil {
		return false, nil
	}
	return v.contractChecker.IsValidHashSignature(ctx, hash, signerAddress, signature)
}

func rejectAll(context.Context, common.Hash, common.Address, []byte) (bool, error) {
	return false, nil
}

// ecrecoverStrategy recovers the signer of keccak256(prefix || hash), or of hash itself without a prefix.
func ecrecoverStrategy(prefix []byte) verifyFunc {
	return func(_ context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error) {
		if len(signature) != ecdsaSignatureLength {
			return false, nil
		}

		digest := hash.Bytes()
		if prefix != nil {
			digest = crypto.Keccak256(prefix, hash.Bytes())
		}

		recovered, ok := recoverAddress(digest, signature)
		return ok && recovered == signerAddress, nil
	}
}

// recoverAddress recovers the address that produced a v|r|s signature over digest.
func recoverAddress(digest []byte, signature []byte) (common.Address, bool) {
	v := signature[0]
	if v < 27 {
		return common.Address{}, false
	}
	v -= 27

	r := new(big.Int).SetBytes(signature[1:33])
	s := new(big.Int).SetBytes(signature[33:65])
	if !crypto.ValidateSignatureValues(v, r, s, false) {
		return common.Address{}, false
	}

	// go-ethereum expects r || s || v with v in {0, 1}.
	rsv := make([]byte, 65)
	copy(rsv[:64], signature[1:65])
	rsv[64] = v

	publicKey, err := crypto.SigToPub(digest, rsv)
	if err != nil {
		return common.Address{}, false
	}

	return crypto.PubkeyToAddress(*publicKey), true
}

// Sign signs hash with key and returns a v|r|s|type signature.
// Only EIP712, EthSign and Trezor signatures can be produced from a private key.
func Sign(hash common.Hash, key *ecdsa.PrivateKey, signatureType Type) ([]byte, error) {
	var digest []byte
	switch signatureType {
	case EIP712:
		digest = hash.Bytes()
	case EthSign:
		digest = crypto.Keccak256([]byte(ethSignPrefix), hash.Bytes())
	case Trezor:
		digest = crypto.Keccak256([]byte(trezorPrefix), hash.Bytes())
	default:
		return nil, fmt.Errorf("cannot sign with signature type %s", signatureType)
	}

	rsv, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, err
	}

	signature := make([]byte, 0, ecdsaSignatureLength)
	signature = append(signature, rsv[64]+27)
	signature = append(signature, rsv[:64]...)
	signature = append(signature, byte(signatureType))
	return signature, nil
}
