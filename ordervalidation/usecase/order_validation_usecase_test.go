package ordervalidationusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/suite"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mocks"
	"github.com/0x-tools/ordersim/log"
	ordervalidationusecase "github.com/0x-tools/ordersim/ordervalidation/usecase"
	"github.com/0x-tools/ordersim/orderstate/orderstatetesting"
	orderstaterepository "github.com/0x-tools/ordersim/orderstate/repository"
	"github.com/0x-tools/ordersim/orderstate/simulator"
)

type OrderValidationUseCaseTestSuite struct {
	orderstatetesting.OrderStateTestHelper
}

func TestOrderValidationUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(OrderValidationUseCaseTestSuite))
}

type validationEnv struct {
	filled    int64
	cancelled bool
	sigValid  bool

	balances   orderstatetesting.Amounts
	allowances orderstatetesting.Amounts
}

func (s *OrderValidationUseCaseTestSuite) newUseCase(env validationEnv) (*ordervalidationusecase.OrderValidationUseCaseImpl, *simulator.ExchangeTransferSimulator) {
	usecase := ordervalidationusecase.New(
		s.NewFilledCancelledFetcher(env.filled, env.cancelled),
		s.NewSignatureVerifier(env.sigValid),
		&log.NoOpLogger{},
	).WithClock(func() time.Time { return orderstatetesting.Now })

	store := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(s.NewBalanceFetcher(env.balances, env.allowances))
	return usecase, simulator.New(store, &log.NoOpLogger{})
}

func (s *OrderValidationUseCaseTestSuite) fundedEnv() validationEnv {
	balances, allowances := s.FundedAmounts(1000)
	return validationEnv{sigValid: true, balances: balances, allowances: allowances}
}

func (s *OrderValidationUseCaseTestSuite) TestValidateOrderFillable() {
	tests := []struct {
		name  string
		order orderstatetesting.Order
		env   func(env validationEnv) validationEnv

		expectedErr domain.ExchangeContractErr
	}{
		{
			name:  "funded open order is fillable",
			order: orderstatetesting.NewOrder(),
		},
		{
			name:  "fully filled order",
			order: orderstatetesting.NewOrder(),
			env: func(env validationEnv) validationEnv {
				env.filled = 10
				return env
			},
			expectedErr: domain.ErrCodeOrderRemainingFillAmountZero,
		},
		{
			name:        "expires now",
			order:       orderstatetesting.NewOrder().WithExpiration(orderstatetesting.NowSeconds),
			expectedErr: domain.ErrCodeOrderFillExpired,
		},
		{
			name:  "remaining amount is checked before expiration",
			order: orderstatetesting.NewOrder().WithExpiration(orderstatetesting.NowSeconds - 1),
			env: func(env validationEnv) validationEnv {
				env.filled = 10
				return env
			},
			expectedErr: domain.ErrCodeOrderRemainingFillAmountZero,
		},
		{
			name:  "invalid signature",
			order: orderstatetesting.NewOrder(),
			env: func(env validationEnv) validationEnv {
				env.sigValid = false
				return env
			},
			expectedErr: domain.ErrCodeInvalidSignature,
		},
		{
			name:  "expiration is checked before signature",
			order: orderstatetesting.NewOrder().WithExpiration(orderstatetesting.NowSeconds - 1),
			env: func(env validationEnv) validationEnv {
				env.sigValid = false
				return env
			},
			expectedErr: domain.ErrCodeOrderFillExpired,
		},
		{
			name:        "maker cannot cover the maker asset",
			order:       orderstatetesting.NewOrder().WithAssetAmounts(2000, 10),
			expectedErr: domain.ErrCodeInsufficientMakerBalance,
		},
		{
			name:        "maker cannot cover the maker fee",
			order:       orderstatetesting.NewOrder().WithFees(1001, 0),
			expectedErr: domain.ErrCodeInsufficientMakerFeeBalance,
		},
		{
			name:        "taker cannot cover the taker asset",
			order:       orderstatetesting.NewOrder().WithAssetAmounts(10, 2000).WithTaker(orderstatetesting.TakerAddress),
			expectedErr: domain.ErrCodeInsufficientTakerBalance,
		},
		{
			name:        "taker cannot cover the taker fee",
			order:       orderstatetesting.NewOrder().WithFees(0, 1001).WithTaker(orderstatetesting.TakerAddress),
			expectedErr: domain.ErrCodeInsufficientTakerFeeBalance,
		},
		{
			name:  "open order does not debit the null taker",
			order: orderstatetesting.NewOrder().WithAssetAmounts(10, 2000).WithFees(0, 5000),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			env := s.fundedEnv()
			if tt.env != nil {
				env = tt.env(env)
			}

			usecase, sim := s.newUseCase(env)

			err := usecase.ValidateOrderFillable(context.Background(), sim, tt.order.SignedOrder, orderstatetesting.FeeAssetData, nil)
			if tt.expectedErr != "" {
				s.RequireExchangeError(err, tt.expectedErr)
				return
			}
			s.Require().NoError(err)
		})
	}
}

func (s *OrderValidationUseCaseTestSuite) TestValidateOrderFillableTransferLegs() {
	order := orderstatetesting.NewOrder().
		WithAssetAmounts(1001, 3).
		WithFees(30, 9).
		WithTaker(orderstatetesting.TakerAddress)

	otherFeeAssetData := orderstatetesting.TakerAssetData

	tests := []struct {
		name                 string
		order                orderstatetesting.Order
		expectedFill         *osmomath.Int
		expectedAmounts      []int64
		expectedFeeAssetData []byte
	}{
		{
			name:                 "whole remaining amount with the order's fee asset data",
			order:                order,
			expectedAmounts:      []int64{1001, 3, 30, 9},
			expectedFeeAssetData: orderstatetesting.FeeAssetData,
		},
		{
			name:                 "expected fill amount with the default fee asset data",
			order:                order.WithFeeAssetData(nil, nil),
			expectedFill:         func() *osmomath.Int { v := osmomath.NewInt(1); return &v }(),
			expectedAmounts:      []int64{333, 1, 10, 3},
			expectedFeeAssetData: otherFeeAssetData,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			usecase, _ := s.newUseCase(s.fundedEnv())
			recorder := &mocks.TransferSimulatorMock{}

			err := usecase.ValidateOrderFillable(context.Background(), recorder, tt.order.SignedOrder, otherFeeAssetData, tt.expectedFill)
			s.Require().NoError(err)

			s.Require().Len(recorder.Calls, 4)

			expectedLegs := []struct {
				from         common.Address
				to           common.Address
				side         domain.TradeSide
				transferType domain.TransferType
			}{
				{orderstatetesting.MakerAddress, orderstatetesting.TakerAddress, domain.TradeSideMaker, domain.TransferTypeTrade},
				{orderstatetesting.TakerAddress, orderstatetesting.MakerAddress, domain.TradeSideTaker, domain.TransferTypeTrade},
				{orderstatetesting.MakerAddress, orderstatetesting.FeeRecipientAddress, domain.TradeSideMaker, domain.TransferTypeFee},
				{orderstatetesting.TakerAddress, orderstatetesting.FeeRecipientAddress, domain.TradeSideTaker, domain.TransferTypeFee},
			}

			for i, call := range recorder.Calls {
				s.Require().Equal(expectedLegs[i].from, call.From)
				s.Require().Equal(expectedLegs[i].to, call.To)
				s.Require().Equal(expectedLegs[i].side, call.Side)
				s.Require().Equal(expectedLegs[i].transferType, call.TransferType)
				s.RequireIntEqual(osmomath.NewInt(tt.expectedAmounts[i]), call.Amount)
			}

			s.Require().Equal(orderstatetesting.MakerAssetData, assetDataOf(recorder, 0))
			s.Require().Equal(orderstatetesting.TakerAssetData, assetDataOf(recorder, 1))
			s.Require().Equal(tt.expectedFeeAssetData, assetDataOf(recorder, 2))
			s.Require().Equal(tt.expectedFeeAssetData, assetDataOf(recorder, 3))
		})
	}
}

func assetDataOf(recorder *mocks.TransferSimulatorMock, i int) []byte {
	return recorder.Calls[i].AssetData
}

func (s *OrderValidationUseCaseTestSuite) TestValidateFillOrder() {
	tests := []struct {
		name  string
		order orderstatetesting.Order
		fill  int64
		env   func(env validationEnv) validationEnv

		expectedFill int64
		expectedErr  domain.ExchangeContractErr
	}{
		{
			name:         "fill within the remaining amount",
			order:        orderstatetesting.NewOrder(),
			fill:         5,
			expectedFill: 5,
		},
		{
			name:  "fill is clamped to the remaining amount",
			order: orderstatetesting.NewOrder(),
			fill:  100,
			env: func(env validationEnv) validationEnv {
				env.filled = 4
				return env
			},
			expectedFill: 6,
		},
		{
			name:  "signature is checked first",
			order: orderstatetesting.NewOrder().WithExpiration(orderstatetesting.NowSeconds - 1),
			fill:  0,
			env: func(env validationEnv) validationEnv {
				env.sigValid = false
				env.cancelled = true
				return env
			},
			expectedErr: domain.ErrCodeInvalidSignature,
		},
		{
			name:        "zero fill amount",
			order:       orderstatetesting.NewOrder(),
			fill:        0,
			expectedErr: domain.ErrCodeOrderFillAmountZero,
		},
		{
			name:  "cancelled order",
			order: orderstatetesting.NewOrder(),
			fill:  5,
			env: func(env validationEnv) validationEnv {
				env.cancelled = true
				env.filled = 10
				return env
			},
			expectedErr: domain.ErrCodeOrderCancelled,
		},
		{
			name:  "fully filled order",
			order: orderstatetesting.NewOrder(),
			fill:  5,
			env: func(env validationEnv) validationEnv {
				env.filled = 10
				return env
			},
			expectedErr: domain.ErrCodeOrderRemainingFillAmountZero,
		},
		{
			name:        "expired order",
			order:       orderstatetesting.NewOrder().WithExpiration(orderstatetesting.NowSeconds),
			fill:        5,
			expectedErr: domain.ErrCodeOrderFillExpired,
		},
		{
			name:        "insufficient funds fail the transfer",
			order:       orderstatetesting.NewOrder().WithAssetAmounts(10, 2000),
			fill:        2000,
			expectedErr: domain.ErrCodeTransferFailed,
		},
		{
			name:        "rounding error",
			order:       orderstatetesting.NewOrder().WithAssetAmounts(1001, 3),
			fill:        1,
			expectedErr: domain.ErrCodeOrderFillRoundingError,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			env := s.fundedEnv()
			if tt.env != nil {
				env = tt.env(env)
			}

			usecase, sim := s.newUseCase(env)

			actual, err := usecase.ValidateFillOrder(context.Background(), sim, tt.order.SignedOrder, osmomath.NewInt(tt.fill), orderstatetesting.TakerAddress, orderstatetesting.FeeAssetData)
			if tt.expectedErr != "" {
				s.RequireExchangeError(err, tt.expectedErr)
				return
			}

			s.Require().NoError(err)
			s.RequireIntEqual(osmomath.NewInt(tt.expectedFill), actual)
		})
	}
}

func (s *OrderValidationUseCaseTestSuite) TestValidateFillOrderWrapsFailingLeg() {
	usecase, sim := s.newUseCase(s.fundedEnv())

	order := orderstatetesting.NewOrder().WithAssetAmounts(10, 2000)
	_, err := usecase.ValidateFillOrder(context.Background(), sim, order.SignedOrder, osmomath.NewInt(2000), orderstatetesting.TakerAddress, orderstatetesting.FeeAssetData)

	var insufficientFundsErr domain.InsufficientFundsError
	s.Require().True(errors.As(err, &insufficientFundsErr))
	s.Require().Equal(domain.ErrCodeInsufficientTakerBalance, insufficientFundsErr.ExchangeContractErr())
}

func (s *OrderValidationUseCaseTestSuite) TestValidateOrderFillableFetchError() {
	fetchErr := errors.New("rpc unavailable")

	filledCancelled := &mocks.OrderFilledCancelledFetcherMock{}
	filledCancelled.WithFilledTakerAmount(osmomath.Int{}, fetchErr)

	usecase := ordervalidationusecase.New(filledCancelled, s.NewSignatureVerifier(true), &log.NoOpLogger{})

	err := usecase.ValidateOrderFillable(context.Background(), &mocks.TransferSimulatorMock{}, orderstatetesting.NewOrder().SignedOrder, nil, nil)
	s.Require().ErrorIs(err, fetchErr)

	var exchangeErr domain.ExchangeError
	s.Require().False(errors.As(err, &exchangeErr))
}
