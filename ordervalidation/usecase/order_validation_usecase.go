package ordervalidationusecase

import (
	"context"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mvc"
	"github.com/0x-tools/ordersim/domain/orderhash"
	"github.com/0x-tools/ordersim/log"
)

type OrderValidationUseCaseImpl struct {
	filledCancelledFetcher domain.OrderFilledCancelledFetcher
	signatureVerifier      domain.SignatureVerifier
	logger                 log.Logger

	now func() time.Time
}

var _ mvc.OrderValidationUsecase = &OrderValidationUseCaseImpl{}

// New creates a new order validation use case.
func New(
	filledCancelledFetcher domain.OrderFilledCancelledFetcher,
	signatureVerifier domain.SignatureVerifier,
	logger log.Logger,
) *OrderValidationUseCaseImpl {
	return &OrderValidationUseCaseImpl{
		filledCancelledFetcher: filledCancelledFetcher,
		signatureVerifier:      signatureVerifier,
		logger:                 logger,
		now:                    time.Now,
	}
}

// WithClock replaces the clock used for expiration checks.
func (o *OrderValidationUseCaseImpl) WithClock(now func() time.Time) *OrderValidationUseCaseImpl {
	o.now = now
	return o
}

// ValidateOrderFillable implements mvc.OrderValidationUsecase.
func (o *OrderValidationUseCaseImpl) ValidateOrderFillable(ctx context.Context, simulator domain.TransferSimulator, order domain.SignedOrder, feeAssetData []byte, expectedFillTakerAssetAmount *osmomath.Int) error {
	orderHash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return err
	}

	filledTakerAssetAmount, err := o.filledCancelledFetcher.GetFilledTakerAmount(ctx, orderHash)
	if err != nil {
		return err
	}

	remainingTakerAssetAmount := order.TakerAssetAmount.Sub(filledTakerAssetAmount)
	if !remainingTakerAssetAmount.IsPositive() {
		return domain.OrderRemainingFillAmountZeroError{OrderHash: orderHash}
	}

	if err := o.validateNotExpired(orderHash, order); err != nil {
		return err
	}

	if err := o.validateSignature(ctx, orderHash, order); err != nil {
		return err
	}

	fillTakerAssetAmount := remainingTakerAssetAmount
	if expectedFillTakerAssetAmount != nil {
		fillTakerAssetAmount = *expectedFillTakerAssetAmount
	}

	return o.simulateFill(ctx, simulator, order, fillTakerAssetAmount, order.TakerAddress, feeAssetData)
}

// ValidateFillOrder implements mvc.OrderValidationUsecase.
// Transfer failures are reported as domain.TransferFailedError wrapping the failing leg.
func (o *OrderValidationUseCaseImpl) ValidateFillOrder(ctx context.Context, simulator domain.TransferSimulator, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address, feeAssetData []byte) (osmomath.Int, error) {
	orderHash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return osmomath.Int{}, err
	}

	if err := o.validateSignature(ctx, orderHash, order); err != nil {
		return osmomath.Int{}, err
	}

	filledTakerAssetAmount, err := o.filledCancelledFetcher.GetFilledTakerAmount(ctx, orderHash)
	if err != nil {
		return osmomath.Int{}, err
	}

	if order.MakerAssetAmount.IsZero() || order.TakerAssetAmount.IsZero() {
		return osmomath.Int{}, domain.OrderRemainingFillAmountZeroError{OrderHash: orderHash}
	}

	if fillTakerAssetAmount.IsZero() {
		return osmomath.Int{}, domain.OrderFillAmountZeroError{OrderHash: orderHash}
	}

	isCancelled, err := o.filledCancelledFetcher.IsOrderCancelled(ctx, order)
	if err != nil {
		return osmomath.Int{}, err
	}

	if isCancelled {
		return osmomath.Int{}, domain.OrderCancelledError{OrderHash: orderHash}
	}

	remainingTakerAssetAmount := order.TakerAssetAmount.Sub(filledTakerAssetAmount)
	if !remainingTakerAssetAmount.IsPositive() {
		return osmomath.Int{}, domain.OrderRemainingFillAmountZeroError{OrderHash: orderHash}
	}

	if err := o.validateNotExpired(orderHash, order); err != nil {
		return osmomath.Int{}, err
	}

	desiredFillTakerAssetAmount := sdkmath.MinInt(remainingTakerAssetAmount, fillTakerAssetAmount)

	if err := o.simulateFill(ctx, simulator, order, desiredFillTakerAssetAmount, takerAddress, feeAssetData); err != nil {
		var insufficientFundsErr domain.InsufficientFundsError
		if errors.As(err, &insufficientFundsErr) {
			return osmomath.Int{}, domain.TransferFailedError{Err: err}
		}
		return osmomath.Int{}, err
	}

	isRoundingError, err := domain.IsRoundingErrorFloor(desiredFillTakerAssetAmount, order.TakerAssetAmount, order.MakerAssetAmount)
	if err != nil {
		return osmomath.Int{}, err
	}

	if isRoundingError {
		return osmomath.Int{}, domain.RoundingError{
			Numerator:   desiredFillTakerAssetAmount,
			Denominator: order.TakerAssetAmount,
			Target:      order.MakerAssetAmount,
		}
	}

	return desiredFillTakerAssetAmount, nil
}

// simulateFill replays the four transfers of a fill in the order the exchange executes them:
// maker asset to taker, taker asset to maker, maker fee and taker fee to the fee recipient.
func (o *OrderValidationUseCaseImpl) simulateFill(ctx context.Context, simulator domain.TransferSimulator, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address, feeAssetData []byte) error {
	fillMakerAssetAmount, err := domain.GetPartialAmountFloor(fillTakerAssetAmount, order.TakerAssetAmount, order.MakerAssetAmount)
	if err != nil {
		return err
	}

	makerFeeAmount, err := domain.GetPartialAmountFloor(fillTakerAssetAmount, order.TakerAssetAmount, order.MakerFee)
	if err != nil {
		return err
	}

	takerFeeAmount, err := domain.GetPartialAmountFloor(fillTakerAssetAmount, order.TakerAssetAmount, order.TakerFee)
	if err != nil {
		return err
	}

	transfers := []struct {
		assetData    []byte
		from         common.Address
		to           common.Address
		amount       osmomath.Int
		side         domain.TradeSide
		transferType domain.TransferType
	}{
		{order.MakerAssetData, order.MakerAddress, takerAddress, fillMakerAssetAmount, domain.TradeSideMaker, domain.TransferTypeTrade},
		{order.TakerAssetData, takerAddress, order.MakerAddress, fillTakerAssetAmount, domain.TradeSideTaker, domain.TransferTypeTrade},
		{feeAssetDataOrDefault(order.MakerFeeAssetData, feeAssetData), order.MakerAddress, order.FeeRecipientAddress, makerFeeAmount, domain.TradeSideMaker, domain.TransferTypeFee},
		{feeAssetDataOrDefault(order.TakerFeeAssetData, feeAssetData), takerAddress, order.FeeRecipientAddress, takerFeeAmount, domain.TradeSideTaker, domain.TransferTypeFee},
	}

	for _, transfer := range transfers {
		if err := simulator.TransferFrom(ctx, transfer.assetData, transfer.from, transfer.to, transfer.amount, transfer.side, transfer.transferType); err != nil {
			o.logger.Debug("simulated transfer failed",
				zap.String("side", string(transfer.side)),
				zap.String("transfer_type", string(transfer.transferType)),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}

// validateNotExpired fails once the current time reaches the expiration, as the exchange does.
func (o *OrderValidationUseCaseImpl) validateNotExpired(orderHash common.Hash, order domain.SignedOrder) error {
	nowSeconds := o.now().Unix()
	if order.ExpirationTimeSeconds.LTE(osmomath.NewInt(nowSeconds)) {
		return domain.OrderExpiredError{
			OrderHash:             orderHash,
			ExpirationTimeSeconds: order.ExpirationTimeSeconds,
			NowSeconds:            nowSeconds,
		}
	}
	return nil
}

func (o *OrderValidationUseCaseImpl) validateSignature(ctx context.Context, orderHash common.Hash, order domain.SignedOrder) error {
	isValid, err := o.signatureVerifier.IsValidSignature(ctx, orderHash, order.MakerAddress, order.Signature)
	if err != nil {
		return err
	}

	if !isValid {
		return domain.InvalidSignatureError{OrderHash: orderHash, Signer: order.MakerAddress}
	}
	return nil
}

func feeAssetDataOrDefault(orderFeeAssetData, defaultFeeAssetData []byte) []byte {
	if len(orderFeeAssetData) > 0 {
		return orderFeeAssetData
	}
	return defaultFeeAssetData
}
