package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

var _ domain.TransferSimulator = &TransferSimulatorMock{}

// TransferCall records one TransferFrom invocation.
type TransferCall struct {
	AssetData    []byte
	From         common.Address
	To           common.Address
	Amount       osmomath.Int
	Side         domain.TradeSide
	TransferType domain.TransferType
}

// TransferSimulatorMock is a mock implementation of domain.TransferSimulator that records its calls.
type TransferSimulatorMock struct {
	TransferFromFunc func(ctx context.Context, assetData []byte, from, to common.Address, amount osmomath.Int, side domain.TradeSide, transferType domain.TransferType) error

	Calls []TransferCall
}

// TransferFrom implements domain.TransferSimulator.
func (m *TransferSimulatorMock) TransferFrom(ctx context.Context, assetData []byte, from, to common.Address, amount osmomath.Int, side domain.TradeSide, transferType domain.TransferType) error {
	m.Calls = append(m.Calls, TransferCall{
		AssetData:    assetData,
		From:         from,
		To:           to,
		Amount:       amount,
		Side:         side,
		TransferType: transferType,
	})

	if m.TransferFromFunc != nil {
		return m.TransferFromFunc(ctx, assetData, from, to, amount, side, transferType)
	}
	return nil
}
