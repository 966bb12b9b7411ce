package orderstaterepository

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/orderhash"
)

// orderFilledCancelledLazyStore caches fill and cancellation lookups for one session.
type orderFilledCancelledLazyStore struct {
	fetcher domain.OrderFilledCancelledFetcher

	mu           sync.Mutex
	filledAmount map[common.Hash]osmomath.Int
	isCancelled  map[common.Hash]bool
}

var _ domain.OrderFilledCancelledStore = &orderFilledCancelledLazyStore{}

// NewOrderFilledCancelledLazyStore creates a store for one session.
func NewOrderFilledCancelledLazyStore(fetcher domain.OrderFilledCancelledFetcher) domain.OrderFilledCancelledStore {
	return &orderFilledCancelledLazyStore{
		fetcher:      fetcher,
		filledAmount: map[common.Hash]osmomath.Int{},
		isCancelled:  map[common.Hash]bool{},
	}
}

// GetFilledTakerAmount implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) GetFilledTakerAmount(ctx context.Context, orderHash common.Hash) (osmomath.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount, ok := s.filledAmount[orderHash]; ok {
		return amount, nil
	}

	amount, err := s.fetcher.GetFilledTakerAmount(ctx, orderHash)
	if err != nil {
		return osmomath.Int{}, err
	}

	s.filledAmount[orderHash] = amount
	return amount, nil
}

// IsOrderCancelled implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) IsOrderCancelled(ctx context.Context, order domain.SignedOrder) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderHash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return false, err
	}

	if cancelled, ok := s.isCancelled[orderHash]; ok {
		return cancelled, nil
	}

	cancelled, err := s.fetcher.IsOrderCancelled(ctx, order)
	if err != nil {
		return false, err
	}

	s.isCancelled[orderHash] = cancelled
	return cancelled, nil
}

// SetFilledTakerAmount implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) SetFilledTakerAmount(orderHash common.Hash, amount osmomath.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filledAmount[orderHash] = amount
}

// SetIsCancelled implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) SetIsCancelled(orderHash common.Hash, cancelled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isCancelled[orderHash] = cancelled
}

// DeleteFilledTakerAmount implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) DeleteFilledTakerAmount(orderHash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filledAmount, orderHash)
}

// DeleteIsCancelled implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) DeleteIsCancelled(orderHash common.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.isCancelled, orderHash)
}

// DeleteAll implements domain.OrderFilledCancelledStore.
func (s *orderFilledCancelledLazyStore) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.filledAmount)
	clear(s.isCancelled)
}
