package orderstaterepository

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

// storeKey identifies a cached amount. Asset data is kept as a string so the key is comparable.
type storeKey struct {
	assetData string
	user      common.Address
}

func newStoreKey(assetData []byte, user common.Address) storeKey {
	return storeKey{assetData: string(assetData), user: user}
}

// balanceAndProxyAllowanceLazyStore is a read through cache over a fetcher.
// An absent key has not been fetched yet; a present key is the sole source of truth for the rest of the session.
// The fetcher is called at most once per key unless the key is deleted.
type balanceAndProxyAllowanceLazyStore struct {
	fetcher domain.BalanceAndProxyAllowanceFetcher

	mu         sync.Mutex
	balances   map[storeKey]osmomath.Int
	allowances map[storeKey]osmomath.Int
}

var _ domain.BalanceAndProxyAllowanceStore = &balanceAndProxyAllowanceLazyStore{}

// NewBalanceAndProxyAllowanceLazyStore creates a store for one simulation session.
func NewBalanceAndProxyAllowanceLazyStore(fetcher domain.BalanceAndProxyAllowanceFetcher) domain.BalanceAndProxyAllowanceStore {
	return &balanceAndProxyAllowanceLazyStore{
		fetcher:    fetcher,
		balances:   map[storeKey]osmomath.Int{},
		allowances: map[storeKey]osmomath.Int{},
	}
}

// GetBalance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) GetBalance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	return s.getOrFetch(ctx, s.balances, assetData, userAddress, s.fetcher.GetBalance)
}

// GetProxyAllowance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) GetProxyAllowance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	return s.getOrFetch(ctx, s.allowances, assetData, userAddress, s.fetcher.GetProxyAllowance)
}

// SetBalance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) SetBalance(assetData []byte, userAddress common.Address, balance osmomath.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[newStoreKey(assetData, userAddress)] = balance
}

// SetProxyAllowance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) SetProxyAllowance(assetData []byte, userAddress common.Address, allowance osmomath.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowances[newStoreKey(assetData, userAddress)] = allowance
}

// DeleteBalance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) DeleteBalance(assetData []byte, userAddress common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.balances, newStoreKey(assetData, userAddress))
}

// DeleteProxyAllowance implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) DeleteProxyAllowance(assetData []byte, userAddress common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allowances, newStoreKey(assetData, userAddress))
}

// DeleteAll implements domain.BalanceAndProxyAllowanceStore.
func (s *balanceAndProxyAllowanceLazyStore) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.balances)
	clear(s.allowances)
}

// getOrFetch holds the lock across the fetch so concurrent readers of one key cannot fetch it twice.
func (s *balanceAndProxyAllowanceLazyStore) getOrFetch(
	ctx context.Context,
	cache map[storeKey]osmomath.Int,
	assetData []byte,
	userAddress common.Address,
	fetch func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error),
) (osmomath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newStoreKey(assetData, userAddress)
	if amount, ok := cache[key]; ok {
		return amount, nil
	}

	amount, err := fetch(ctx, assetData, userAddress)
	if err != nil {
		return osmomath.Int{}, err
	}

	cache[key] = amount
	return amount, nil
}
