package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0x-tools/ordersim/domain"
)

var _ domain.SignatureVerifier = &SignatureVerifierMock{}

// SignatureVerifierMock is a mock implementation of domain.SignatureVerifier.
type SignatureVerifierMock struct {
	IsValidSignatureFunc func(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error)
}

// IsValidSignature implements domain.SignatureVerifier.
func (m *SignatureVerifierMock) IsValidSignature(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error) {
	if m.IsValidSignatureFunc != nil {
		return m.IsValidSignatureFunc(ctx, hash, signerAddress, signature)
	}
	panic("IsValidSignature not implemented")
}

// WithIsValidSignature makes every signature verify to the given result.
func (m *SignatureVerifierMock) WithIsValidSignature(isValid bool, err error) {
	m.IsValidSignatureFunc = func(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error) {
		return isValid, err
	}
}
