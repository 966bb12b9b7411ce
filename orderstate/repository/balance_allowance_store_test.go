package orderstaterepository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mocks"
	orderstaterepository "github.com/0x-tools/ordersim/orderstate/repository"
)

type LazyStoreTestSuite struct {
	suite.Suite
}

func TestLazyStoreTestSuite(t *testing.T) {
	suite.Run(t, new(LazyStoreTestSuite))
}

// Callers only see the session store interfaces.
var (
	_ func(domain.BalanceAndProxyAllowanceFetcher) domain.BalanceAndProxyAllowanceStore = orderstaterepository.NewBalanceAndProxyAllowanceLazyStore
	_ func(domain.OrderFilledCancelledFetcher) domain.OrderFilledCancelledStore         = orderstaterepository.NewOrderFilledCancelledLazyStore
)

var (
	assetA = []byte{0xf4, 0x72, 0x61, 0xb0, 0x01}
	assetB = []byte{0xf4, 0x72, 0x61, 0xb0, 0x02}
	userA  = common.HexToAddress("0xa")
	userB  = common.HexToAddress("0xb")
)

// countingFetcher returns a fetcher serving a fixed amount per call kind and counters of how often each was hit.
func countingFetcher(balance, allowance int64) (*mocks.BalanceAndProxyAllowanceFetcherMock, *int, *int) {
	balanceCalls, allowanceCalls := 0, 0
	return &mocks.BalanceAndProxyAllowanceFetcherMock{
		GetBalanceFunc: func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
			balanceCalls++
			return osmomath.NewInt(balance), nil
		},
		GetProxyAllowanceFunc: func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
			allowanceCalls++
			return osmomath.NewInt(allowance), nil
		},
	}, &balanceCalls, &allowanceCalls
}

func (s *LazyStoreTestSuite) TestGetFetchesOncePerKey() {
	fetcher, balanceCalls, allowanceCalls := countingFetcher(100, 50)
	store := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(fetcher)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		balance, err := store.GetBalance(ctx, assetA, userA)
		s.Require().NoError(err)
		s.Require().Equal(osmomath.NewInt(100), balance)

		allowance, err := store.GetProxyAllowance(ctx, assetA, userA)
		s.Require().NoError(err)
		s.Require().Equal(osmomath.NewInt(50), allowance)
	}

	assert.Equal(s.T(), 1, *balanceCalls)
	assert.Equal(s.T(), 1, *allowanceCalls)

	// Distinct asset or user is a distinct key.
	_, err := store.GetBalance(ctx, assetB, userA)
	s.Require().NoError(err)
	_, err = store.GetBalance(ctx, assetA, userB)
	s.Require().NoError(err)
	assert.Equal(s.T(), 3, *balanceCalls)
}

func (s *LazyStoreTestSuite) TestSetOverridesWithoutFetching() {
	fetcher, balanceCalls, allowanceCalls := countingFetcher(100, 50)
	store := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(fetcher)
	ctx := context.Background()

	store.SetBalance(assetA, userA, osmomath.NewInt(7))
	store.SetProxyAllowance(assetA, userA, osmomath.NewInt(8))

	balance, err := store.GetBalance(ctx, assetA, userA)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewInt(7), balance)

	allowance, err := store.GetProxyAllowance(ctx, assetA, userA)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewInt(8), allowance)

	assert.Equal(s.T(), 0, *balanceCalls)
	assert.Equal(s.T(), 0, *allowanceCalls)
}

func (s *LazyStoreTestSuite) TestDeleteRefetches() {
	tests := []struct {
		name                   string
		deleteFn               func(store domain.BalanceAndProxyAllowanceStore)
		expectedBalanceCalls   int
		expectedAllowanceCalls int
	}{
		{
			name:                   "delete balance",
			deleteFn:               func(store domain.BalanceAndProxyAllowanceStore) { store.DeleteBalance(assetA, userA) },
			expectedBalanceCalls:   2,
			expectedAllowanceCalls: 1,
		},
		{
			name:                   "delete proxy allowance",
			deleteFn:               func(store domain.BalanceAndProxyAllowanceStore) { store.DeleteProxyAllowance(assetA, userA) },
			expectedBalanceCalls:   1,
			expectedAllowanceCalls: 2,
		},
		{
			name:                   "delete all",
			deleteFn:               func(store domain.BalanceAndProxyAllowanceStore) { store.DeleteAll() },
			expectedBalanceCalls:   2,
			expectedAllowanceCalls: 2,
		},
	}

	for _, tt := range tests {
		s.T().Run(tt.name, func(t *testing.T) {
			fetcher, balanceCalls, allowanceCalls := countingFetcher(100, 50)
			store := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(fetcher)
			ctx := context.Background()

			_, err := store.GetBalance(ctx, assetA, userA)
			s.Require().NoError(err)
			_, err = store.GetProxyAllowance(ctx, assetA, userA)
			s.Require().NoError(err)

			tt.deleteFn(store)

			_, err = store.GetBalance(ctx, assetA, userA)
			s.Require().NoError(err)
			_, err = store.GetProxyAllowance(ctx, assetA, userA)
			s.Require().NoError(err)

			assert.Equal(t, tt.expectedBalanceCalls, *balanceCalls)
			assert.Equal(t, tt.expectedAllowanceCalls, *allowanceCalls)
		})
	}
}

func (s *LazyStoreTestSuite) TestFetchErrorIsNotCached() {
	calls := 0
	fetcher := &mocks.BalanceAndProxyAllowanceFetcherMock{
		GetBalanceFunc: func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
			calls++
			if calls == 1 {
				return osmomath.Int{}, errors.New("node unavailable")
			}
			return osmomath.NewInt(3), nil
		},
	}
	store := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(fetcher)

	_, err := store.GetBalance(context.Background(), assetA, userA)
	s.Require().Error(err)

	balance, err := store.GetBalance(context.Background(), assetA, userA)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewInt(3), balance)
}
