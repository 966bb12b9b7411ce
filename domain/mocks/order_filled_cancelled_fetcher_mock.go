package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

var _ domain.OrderFilledCancelledFetcher = &OrderFilledCancelledFetcherMock{}

// OrderFilledCancelledFetcherMock is a mock implementation of domain.OrderFilledCancelledFetcher.
type OrderFilledCancelledFetcherMock struct {
	GetFilledTakerAmountFunc func(ctx context.Context, orderHash common.Hash) (osmomath.Int, error)
	IsOrderCancelledFunc     func(ctx context.Context, order domain.SignedOrder) (bool, error)
}

// GetFilledTakerAmount implements domain.OrderFilledCancelledFetcher.
func (m *OrderFilledCancelledFetcherMock) GetFilledTakerAmount(ctx context.Context, orderHash common.Hash) (osmomath.Int, error) {
	if m.GetFilledTakerAmountFunc != nil {
		return m.GetFilledTakerAmountFunc(ctx, orderHash)
	}
	panic("GetFilledTakerAmount not implemented")
}

// IsOrderCancelled implements domain.OrderFilledCancelledFetcher.
func (m *OrderFilledCancelledFetcherMock) IsOrderCancelled(ctx context.Context, order domain.SignedOrder) (bool, error) {
	if m.IsOrderCancelledFunc != nil {
		return m.IsOrderCancelledFunc(ctx, order)
	}
	panic("IsOrderCancelled not implemented")
}

// WithFilledTakerAmount makes every order report the given filled amount.
func (m *OrderFilledCancelledFetcherMock) WithFilledTakerAmount(filled osmomath.Int, err error) {
	m.GetFilledTakerAmountFunc = func(ctx context.Context, orderHash common.Hash) (osmomath.Int, error) {
		return filled, err
	}
}

// WithIsOrderCancelled makes every order report the given cancellation state.
func (m *OrderFilledCancelledFetcherMock) WithIsOrderCancelled(cancelled bool, err error) {
	m.IsOrderCancelledFunc = func(ctx context.Context, order domain.SignedOrder) (bool, error) {
		return cancelled, err
	}
}
