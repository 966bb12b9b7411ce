package orderstaterepository_test

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mocks"
	"github.com/0x-tools/ordersim/domain/orderhash"
	orderstaterepository "github.com/0x-tools/ordersim/orderstate/repository"
)

func (s *LazyStoreTestSuite) TestOrderFilledCancelledStore() {
	filledCalls, cancelledCalls := 0, 0
	fetcher := &mocks.OrderFilledCancelledFetcherMock{
		GetFilledTakerAmountFunc: func(ctx context.Context, orderHash common.Hash) (osmomath.Int, error) {
			filledCalls++
			return osmomath.NewInt(5), nil
		},
		IsOrderCancelledFunc: func(ctx context.Context, order domain.SignedOrder) (bool, error) {
			cancelledCalls++
			return true, nil
		},
	}
	store := orderstaterepository.NewOrderFilledCancelledLazyStore(fetcher)
	ctx := context.Background()

	order := domain.SignedOrder{Order: domain.Order{
		ChainID:               1,
		MakerAssetAmount:      osmomath.NewInt(1),
		TakerAssetAmount:      osmomath.NewInt(1),
		MakerFee:              osmomath.ZeroInt(),
		TakerFee:              osmomath.ZeroInt(),
		ExpirationTimeSeconds: osmomath.NewInt(100),
		Salt:                  osmomath.NewInt(1),
	}}
	orderHash, err := orderhash.GetOrderHash(order.Order)
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		filled, err := store.GetFilledTakerAmount(ctx, orderHash)
		s.Require().NoError(err)
		s.Require().Equal(osmomath.NewInt(5), filled)

		cancelled, err := store.IsOrderCancelled(ctx, order)
		s.Require().NoError(err)
		s.Require().True(cancelled)
	}
	s.Require().Equal(1, filledCalls)
	s.Require().Equal(1, cancelledCalls)

	store.DeleteFilledTakerAmount(orderHash)
	_, err = store.GetFilledTakerAmount(ctx, orderHash)
	s.Require().NoError(err)
	s.Require().Equal(2, filledCalls)

	store.DeleteIsCancelled(orderHash)
	_, err = store.IsOrderCancelled(ctx, order)
	s.Require().NoError(err)
	s.Require().Equal(2, cancelledCalls)

	store.DeleteAll()
	_, err = store.GetFilledTakerAmount(ctx, orderHash)
	s.Require().NoError(err)
	_, err = store.IsOrderCancelled(ctx, order)
	s.Require().NoError(err)
	s.Require().Equal(3, filledCalls)
	s.Require().Equal(3, cancelledCalls)

	store.SetFilledTakerAmount(orderHash, osmomath.NewInt(9))
	store.SetIsCancelled(orderHash, false)

	filled, err := store.GetFilledTakerAmount(ctx, orderHash)
	s.Require().NoError(err)
	s.Require().Equal(osmomath.NewInt(9), filled)

	cancelled, err := store.IsOrderCancelled(ctx, order)
	s.Require().NoError(err)
	s.Require().False(cancelled)

	s.Require().Equal(3, filledCalls)
	s.Require().Equal(3, cancelledCalls)
}
