package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0x-tools/ordersim/domain/signature"
)

// SignatureChecker asks the exchange to validate contract backed signatures.
type SignatureChecker struct {
	caller   Caller
	exchange common.Address
}

var _ signature.ContractSignatureChecker = &SignatureChecker{}

// NewSignatureChecker creates a checker calling exchange.
func NewSignatureChecker(caller Caller, exchange common.Address) *SignatureChecker {
	return &SignatureChecker{
		caller:   caller,
		exchange: exchange,
	}
}

// IsValidHashSignature implements signature.ContractSignatureChecker.
// The exchange reverts on malformed signatures and failing wallets; a revert is an invalid signature.
func (c *SignatureChecker) IsValidHashSignature(ctx context.Context, hash common.Hash, signerAddress common.Address, sig []byte) (bool, error) {
	isValid, err := callBool(ctx, c.caller, exchangeABI, c.exchange, nil, "isValidHashSignature", [32]byte(hash), signerAddress, sig)
	if err != nil {
		if isRevert(err) {
			return false, nil
		}
		return false, err
	}
	return isValid, nil
}
