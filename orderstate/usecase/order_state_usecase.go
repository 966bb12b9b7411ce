package orderstateusecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/domain/mvc"
	"github.com/0x-tools/ordersim/domain/workerpool"
	"github.com/0x-tools/ordersim/log"
	ordervalidationusecase "github.com/0x-tools/ordersim/ordervalidation/usecase"
	orderstaterepository "github.com/0x-tools/ordersim/orderstate/repository"
	"github.com/0x-tools/ordersim/orderstate/simulator"
	"github.com/0x-tools/ordersim/orderstate/telemetry"
)

type OrderStateUseCaseImpl struct {
	chainStateProvider  domain.ChainStateProvider
	signatureVerifier   domain.SignatureVerifier
	decoder             assetdata.Decoder
	defaultFeeAssetData []byte
	workers             int
	maxBatchSize        int
	logger              log.Logger

	now func() time.Time
}

var _ mvc.OrderStateUsecase = &OrderStateUseCaseImpl{}

const validResultLabel = "valid"

// New creates a new order state use case.
func New(
	chainStateProvider domain.ChainStateProvider,
	signatureVerifier domain.SignatureVerifier,
	decoder assetdata.Decoder,
	config domain.OrderStateConfig,
	logger log.Logger,
) (*OrderStateUseCaseImpl, error) {
	if signatureVerifier == nil {
		return nil, errors.New("signature verifier must be set")
	}

	var defaultFeeAssetData []byte
	if config.DefaultFeeAssetData != "" {
		var err error
		defaultFeeAssetData, err = hexutil.Decode(config.DefaultFeeAssetData)
		if err != nil {
			return nil, fmt.Errorf("invalid default fee asset data %q: %w", config.DefaultFeeAssetData, err)
		}

		if _, err := decoder.Decode(defaultFeeAssetData); err != nil {
			return nil, fmt.Errorf("invalid default fee asset data %q: %w", config.DefaultFeeAssetData, err)
		}
	}

	return &OrderStateUseCaseImpl{
		chainStateProvider:  chainStateProvider,
		signatureVerifier:   signatureVerifier,
		decoder:             decoder,
		defaultFeeAssetData: defaultFeeAssetData,
		workers:             config.Workers,
		maxBatchSize:        config.MaxBatchSize,
		logger:              logger,
		now:                 time.Now,
	}, nil
}

// GetOpenOrderState implements mvc.OrderStateUsecase.
func (o *OrderStateUseCaseImpl) GetOpenOrderState(ctx context.Context, order domain.SignedOrder) (domain.OrderState, error) {
	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return domain.OrderState{}, err
	}

	return o.getOpenOrderState(ctx, chainState, order)
}

// GetOpenOrdersState implements mvc.OrderStateUsecase.
// All orders are evaluated against the same chain state, each with its own session stores.
// The first infrastructure error fails the whole batch.
func (o *OrderStateUseCaseImpl) GetOpenOrdersState(ctx context.Context, orders []domain.SignedOrder) ([]domain.OrderState, error) {
	if o.maxBatchSize > 0 && len(orders) > o.maxBatchSize {
		return nil, fmt.Errorf("%w: %d orders exceed the max batch size of %d", domain.ErrBadParamInput, len(orders), o.maxBatchSize)
	}

	if len(orders) == 0 {
		return []domain.OrderState{}, nil
	}

	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]func() (domain.OrderState, error), 0, len(orders))
	for _, order := range orders {
		order := order
		tasks = append(tasks, func() (domain.OrderState, error) {
			return o.getOpenOrderState(ctx, chainState, order)
		})
	}

	results := workerpool.RunAll(o.workers, tasks)

	orderStates := make([]domain.OrderState, 0, len(results))
	for i, result := range results {
		if result.Err != nil {
			return nil, fmt.Errorf("order %d: %w", i, result.Err)
		}
		orderStates = append(orderStates, result.Result)
	}

	return orderStates, nil
}

// GetOpenOrderRelevantState implements mvc.OrderStateUsecase.
func (o *OrderStateUseCaseImpl) GetOpenOrderRelevantState(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error) {
	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return domain.OrderRelevantState{}, err
	}

	return o.newOrderStateUtils(chainState).GetOpenOrderRelevantState(ctx, order)
}

// GetMaxFillableTakerAssetAmount implements mvc.OrderStateUsecase.
func (o *OrderStateUseCaseImpl) GetMaxFillableTakerAssetAmount(ctx context.Context, order domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error) {
	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return osmomath.Int{}, err
	}

	return o.newOrderStateUtils(chainState).GetMaxFillableTakerAssetAmount(ctx, order, takerAddress)
}

// ValidateOrderFillable implements mvc.OrderStateUsecase.
func (o *OrderStateUseCaseImpl) ValidateOrderFillable(ctx context.Context, order domain.SignedOrder, expectedFillTakerAssetAmount *osmomath.Int) error {
	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return err
	}

	validation, transferSimulator := o.newValidationSession(chainState)
	return validation.ValidateOrderFillable(ctx, transferSimulator, order, o.defaultFeeAssetData, expectedFillTakerAssetAmount)
}

// ValidateFillOrder implements mvc.OrderStateUsecase.
func (o *OrderStateUseCaseImpl) ValidateFillOrder(ctx context.Context, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address) (osmomath.Int, error) {
	chainState, err := o.chainStateProvider.LatestChainState(ctx)
	if err != nil {
		return osmomath.Int{}, err
	}

	validation, transferSimulator := o.newValidationSession(chainState)
	return validation.ValidateFillOrder(ctx, transferSimulator, order, fillTakerAssetAmount, takerAddress, o.defaultFeeAssetData)
}

func (o *OrderStateUseCaseImpl) getOpenOrderState(ctx context.Context, chainState domain.ChainState, order domain.SignedOrder) (domain.OrderState, error) {
	start := time.Now()
	defer func() {
		telemetry.OrderStateDurationHistogram.Observe(time.Since(start).Seconds())
	}()

	orderState, err := o.newOrderStateUtils(chainState).GetOpenOrderState(ctx, order)
	if err != nil {
		telemetry.OrderStateErrorCounter.Inc()
		o.logger.Error("failed to compute order state", zap.Uint64("block_number", chainState.BlockNumber), zap.Error(err))
		return domain.OrderState{}, err
	}

	if orderState.IsValid {
		telemetry.OrderStateCounter.WithLabelValues(validResultLabel).Inc()
	} else {
		telemetry.OrderStateCounter.WithLabelValues(string(orderState.Error)).Inc()
		o.logger.Debug("order is not fillable",
			zap.Stringer("order_hash", orderState.OrderHash),
			zap.String("error", orderState.ErrorMessage),
		)
	}

	return orderState, nil
}

// newOrderStateUtils starts a session over chainState. Session stores are never shared between orders.
func (o *OrderStateUseCaseImpl) newOrderStateUtils(chainState domain.ChainState) *OrderStateUtils {
	return NewOrderStateUtils(
		orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(chainState.Balances),
		orderstaterepository.NewOrderFilledCancelledLazyStore(chainState.FilledCancelled),
		o.signatureVerifier,
		o.decoder,
		o.defaultFeeAssetData,
	).WithClock(o.now)
}

func (o *OrderStateUseCaseImpl) newValidationSession(chainState domain.ChainState) (*ordervalidationusecase.OrderValidationUseCaseImpl, domain.TransferSimulator) {
	balanceStore := orderstaterepository.NewBalanceAndProxyAllowanceLazyStore(chainState.Balances)
	filledCancelledStore := orderstaterepository.NewOrderFilledCancelledLazyStore(chainState.FilledCancelled)

	validation := ordervalidationusecase.New(filledCancelledStore, o.signatureVerifier, o.logger).WithClock(o.now)
	return validation, simulator.New(balanceStore, o.logger)
}
