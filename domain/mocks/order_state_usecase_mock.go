package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mvc"
)

var _ mvc.OrderStateUsecase = &OrderStateUsecaseMock{}

// OrderStateUsecaseMock is a mock implementation of mvc.OrderStateUsecase.
type OrderStateUsecaseMock struct {
	GetOpenOrderStateFunc              func(ctx context.Context, order domain.SignedOrder) (domain.OrderState, error)
	GetOpenOrdersStateFunc             func(ctx context.Context, orders []domain.SignedOrder) ([]domain.OrderState, error)
	GetOpenOrderRelevantStateFunc      func(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error)
	GetMaxFillableTakerAssetAmountFunc func(ctx context.Context, order domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error)
	ValidateOrderFillableFunc          func(ctx context.Context, order domain.SignedOrder, expectedFillTakerAssetAmount *osmomath.Int) error
	ValidateFillOrderFunc              func(ctx context.Context, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address) (osmomath.Int, error)
}

func (m *OrderStateUsecaseMock) GetOpenOrderState(ctx context.Context, order domain.SignedOrder) (domain.OrderState, error) {
	if m.GetOpenOrderStateFunc != nil {
		return m.GetOpenOrderStateFunc(ctx, order)
	}
	panic("GetOpenOrderState not implemented")
}

func (m *OrderStateUsecaseMock) GetOpenOrdersState(ctx context.Context, orders []domain.SignedOrder) ([]domain.OrderState, error) {
	if m.GetOpenOrdersStateFunc != nil {
		return m.GetOpenOrdersStateFunc(ctx, orders)
	}
	panic("GetOpenOrdersState not implemented")
}

func (m *OrderStateUsecaseMock) GetOpenOrderRelevantState(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error) {
	if m.GetOpenOrderRelevantStateFunc != nil {
		return m.GetOpenOrderRelevantStateFunc(ctx, order)
	}
	panic("GetOpenOrderRelevantState not implemented")
}

func (m *OrderStateUsecaseMock) GetMaxFillableTakerAssetAmount(ctx context.Context, order domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error) {
	if m.GetMaxFillableTakerAssetAmountFunc != nil {
		return m.GetMaxFillableTakerAssetAmountFunc(ctx, order, takerAddress)
	}
	panic("GetMaxFillableTakerAssetAmount not implemented")
}

func (m *OrderStateUsecaseMock) ValidateOrderFillable(ctx context.Context, order domain.SignedOrder, expectedFillTakerAssetAmount *osmomath.Int) error {
	if m.ValidateOrderFillableFunc != nil {
		return m.ValidateOrderFillableFunc(ctx, order, expectedFillTakerAssetAmount)
	}
	panic("ValidateOrderFillable not implemented")
}

func (m *OrderStateUsecaseMock) ValidateFillOrder(ctx context.Context, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address) (osmomath.Int, error) {
	if m.ValidateFillOrderFunc != nil {
		return m.ValidateFillOrderFunc(ctx, order, fillTakerAssetAmount, takerAddress)
	}
	panic("ValidateFillOrder not implemented")
}
