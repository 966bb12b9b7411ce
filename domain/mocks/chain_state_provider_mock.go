package mocks

import (
	"context"

	"github.com/0x-tools/ordersim/domain"
)

var _ domain.ChainStateProvider = &ChainStateProviderMock{}

// ChainStateProviderMock is a mock implementation of domain.ChainStateProvider.
type ChainStateProviderMock struct {
	LatestChainStateFunc func(ctx context.Context) (domain.ChainState, error)

	Calls int
}

// LatestChainState implements domain.ChainStateProvider.
func (m *ChainStateProviderMock) LatestChainState(ctx context.Context) (domain.ChainState, error) {
	m.Calls++
	if m.LatestChainStateFunc != nil {
		return m.LatestChainStateFunc(ctx)
	}
	panic("LatestChainState not implemented")
}

// WithChainState makes every call return the given chain state.
func (m *ChainStateProviderMock) WithChainState(chainState domain.ChainState, err error) {
	m.LatestChainStateFunc = func(ctx context.Context) (domain.ChainState, error) {
		return chainState, err
	}
}
