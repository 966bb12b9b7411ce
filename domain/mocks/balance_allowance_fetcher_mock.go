package mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

var _ domain.BalanceAndProxyAllowanceFetcher = &BalanceAndProxyAllowanceFetcherMock{}

// BalanceAndProxyAllowanceFetcherMock is a mock implementation of domain.BalanceAndProxyAllowanceFetcher.
type BalanceAndProxyAllowanceFetcherMock struct {
	GetBalanceFunc        func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error)
	GetProxyAllowanceFunc func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error)
}

// GetBalance implements domain.BalanceAndProxyAllowanceFetcher.
func (m *BalanceAndProxyAllowanceFetcherMock) GetBalance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, assetData, userAddress)
	}
	panic("GetBalance not implemented")
}

// GetProxyAllowance implements domain.BalanceAndProxyAllowanceFetcher.
func (m *BalanceAndProxyAllowanceFetcherMock) GetProxyAllowance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	if m.GetProxyAllowanceFunc != nil {
		return m.GetProxyAllowanceFunc(ctx, assetData, userAddress)
	}
	panic("GetProxyAllowance not implemented")
}

// WithBalances makes GetBalance serve the given amounts keyed by asset data and user.
// Missing entries are zero.
func (m *BalanceAndProxyAllowanceFetcherMock) WithBalances(balances map[string]map[common.Address]osmomath.Int) {
	m.GetBalanceFunc = lookupFunc(balances)
}

// WithProxyAllowances makes GetProxyAllowance serve the given amounts keyed by asset data and user.
// Missing entries are zero.
func (m *BalanceAndProxyAllowanceFetcherMock) WithProxyAllowances(allowances map[string]map[common.Address]osmomath.Int) {
	m.GetProxyAllowanceFunc = lookupFunc(allowances)
}

func lookupFunc(amounts map[string]map[common.Address]osmomath.Int) func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	return func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
		if byUser, ok := amounts[string(assetData)]; ok {
			if amount, ok := byUser[userAddress]; ok {
				return amount, nil
			}
		}
		return osmomath.ZeroInt(), nil
	}
}
