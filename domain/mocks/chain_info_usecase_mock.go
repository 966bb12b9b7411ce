package mocks

import (
	"context"

	"github.com/0x-tools/ordersim/domain/mvc"
)

var _ mvc.ChainInfoUsecase = &ChainInfoUsecaseMock{}

// ChainInfoUsecaseMock is a mock implementation of the ChainInfoUsecase interface
type ChainInfoUsecaseMock struct {
	GetLatestHeightFunc func(ctx context.Context) (uint64, error)
}

func (m *ChainInfoUsecaseMock) GetLatestHeight(ctx context.Context) (uint64, error) {
	if m.GetLatestHeightFunc != nil {
		return m.GetLatestHeightFunc(ctx)
	}
	return 0, nil
}

// WithLatestHeight sets the mock to return height and err.
func (m *ChainInfoUsecaseMock) WithLatestHeight(height uint64, err error) {
	m.GetLatestHeightFunc = func(ctx context.Context) (uint64, error) {
		return height, err
	}
}
