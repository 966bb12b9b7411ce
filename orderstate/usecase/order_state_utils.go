package orderstateusecase

import (
	"context"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/domain/orderhash"
	"github.com/0x-tools/ordersim/orderstate/fillable"
)

// OrderStateUtils derives the state of orders from the fetchers of one chain state snapshot.
type OrderStateUtils struct {
	balanceFetcher         domain.BalanceAndProxyAllowanceFetcher
	filledCancelledFetcher domain.OrderFilledCancelledFetcher
	signatureVerifier      domain.SignatureVerifier
	decoder                assetdata.Decoder
	defaultFeeAssetData    []byte

	now func() time.Time
}

// sidedOrderRelevantState is the order relevant state seen from one trader of the order.
type sidedOrderRelevantState struct {
	isMakerSide bool

	traderBalance                   osmomath.Int
	traderIndividualBalances        map[string]osmomath.Int
	traderProxyAllowance            osmomath.Int
	traderIndividualProxyAllowances map[string]osmomath.Int
	traderFeeBalance                osmomath.Int
	traderFeeProxyAllowance         osmomath.Int

	filledTakerAssetAmount       osmomath.Int
	remainingTakerAssetAmount    osmomath.Int
	remainingFillableAssetAmount osmomath.Int
	isOrderCancelled             bool
}

// NewOrderStateUtils creates order state utils reading through the given fetchers.
// defaultFeeAssetData stands in for the fee asset data of orders that leave it empty.
func NewOrderStateUtils(
	balanceFetcher domain.BalanceAndProxyAllowanceFetcher,
	filledCancelledFetcher domain.OrderFilledCancelledFetcher,
	signatureVerifier domain.SignatureVerifier,
	decoder assetdata.Decoder,
	defaultFeeAssetData []byte,
) *OrderStateUtils {
	return &OrderStateUtils{
		balanceFetcher:         balanceFetcher,
		filledCancelledFetcher: filledCancelledFetcher,
		signatureVerifier:      signatureVerifier,
		decoder:                decoder,
		defaultFeeAssetData:    defaultFeeAssetData,
		now:                    time.Now,
	}
}

// WithClock replaces the clock used for expiration checks.
func (u *OrderStateUtils) WithClock(now func() time.Time) *OrderStateUtils {
	u.now = now
	return u
}

// GetOpenOrderState returns the state of an order from the maker's point of view.
// Exchange errors make the order invalid and are reported in the returned state.
// Any other error is returned as is.
func (u *OrderStateUtils) GetOpenOrderState(ctx context.Context, order domain.SignedOrder) (domain.OrderState, error) {
	orderHash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return domain.OrderState{}, err
	}

	sidedState, err := u.getSidedOrderRelevantState(ctx, true, order, order.TakerAddress)
	if err != nil {
		return invalidOrderStateOrError(orderHash, err)
	}

	orderRelevantState, err := toOrderRelevantState(order, sidedState)
	if err != nil {
		return invalidOrderStateOrError(orderHash, err)
	}

	if err := u.validateIfOrderIsValid(ctx, orderHash, order, sidedState); err != nil {
		return invalidOrderStateOrError(orderHash, err)
	}

	return domain.NewValidOrderState(orderHash, orderRelevantState), nil
}

// GetOpenOrderRelevantState returns the balances and amounts that bound the fill of an order.
func (u *OrderStateUtils) GetOpenOrderRelevantState(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error) {
	sidedState, err := u.getSidedOrderRelevantState(ctx, true, order, order.TakerAddress)
	if err != nil {
		return domain.OrderRelevantState{}, err
	}

	return toOrderRelevantState(order, sidedState)
}

// GetMaxFillableTakerAssetAmount returns the largest taker amount takerAddress could fill,
// bounded by both what the maker can deliver and what the taker can pay.
func (u *OrderStateUtils) GetMaxFillableTakerAssetAmount(ctx context.Context, order domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error) {
	makerState, err := u.getSidedOrderRelevantState(ctx, true, order, order.TakerAddress)
	if err != nil {
		return osmomath.Int{}, err
	}

	fillableGivenMaker := osmomath.ZeroInt()
	if !order.MakerAssetAmount.IsZero() {
		fillableGivenMaker, err = domain.GetPartialAmountFloor(makerState.remainingFillableAssetAmount, order.MakerAssetAmount, order.TakerAssetAmount)
		if err != nil {
			return osmomath.Int{}, err
		}
	}

	takerState, err := u.getSidedOrderRelevantState(ctx, false, order, takerAddress)
	if err != nil {
		return osmomath.Int{}, err
	}

	return sdkmath.MinInt(fillableGivenMaker, takerState.remainingFillableAssetAmount), nil
}

// validateIfOrderIsValid returns the first exchange error that makes the order unfillable.
// The signature is only checked once all cheaper checks pass.
func (u *OrderStateUtils) validateIfOrderIsValid(ctx context.Context, orderHash common.Hash, order domain.SignedOrder, sidedState sidedOrderRelevantState) error {
	if sidedState.isOrderCancelled {
		return domain.OrderCancelledError{OrderHash: orderHash}
	}

	if !sidedState.remainingTakerAssetAmount.IsPositive() {
		return domain.OrderRemainingFillAmountZeroError{OrderHash: orderHash}
	}

	nowSeconds := u.now().Unix()
	if order.ExpirationTimeSeconds.LTE(osmomath.NewInt(nowSeconds)) {
		return domain.OrderExpiredError{OrderHash: orderHash, ExpirationTimeSeconds: order.ExpirationTimeSeconds, NowSeconds: nowSeconds}
	}

	traderAddress := order.MakerAddress
	side := domain.TradeSideMaker
	if !sidedState.isMakerSide {
		traderAddress = order.TakerAddress
		side = domain.TradeSideTaker
	}

	emptyFunds := func(transferType domain.TransferType, kind domain.FundsKind, actual osmomath.Int) error {
		return domain.InsufficientFundsError{Side: side, Transfer: transferType, Kind: kind, Address: traderAddress, Required: osmomath.OneInt(), Actual: actual}
	}

	if sidedState.traderBalance.IsZero() {
		return emptyFunds(domain.TransferTypeTrade, domain.FundsKindBalance, sidedState.traderBalance)
	}

	if sidedState.traderProxyAllowance.IsZero() {
		return emptyFunds(domain.TransferTypeTrade, domain.FundsKindAllowance, sidedState.traderProxyAllowance)
	}

	if !order.MakerFee.IsZero() {
		if sidedState.traderFeeBalance.IsZero() {
			return emptyFunds(domain.TransferTypeFee, domain.FundsKindBalance, sidedState.traderFeeBalance)
		}

		if sidedState.traderFeeProxyAllowance.IsZero() {
			return emptyFunds(domain.TransferTypeFee, domain.FundsKindAllowance, sidedState.traderFeeProxyAllowance)
		}
	}

	isRoundingError, err := domain.IsRoundingErrorFloor(sidedState.remainingTakerAssetAmount, order.TakerAssetAmount, order.MakerAssetAmount)
	if err != nil {
		return err
	}

	if isRoundingError {
		return domain.RoundingError{
			Numerator:   sidedState.remainingTakerAssetAmount,
			Denominator: order.TakerAssetAmount,
			Target:      order.MakerAssetAmount,
		}
	}

	isValid, err := u.signatureVerifier.IsValidSignature(ctx, orderHash, order.MakerAddress, order.Signature)
	if err != nil {
		return err
	}

	if !isValid {
		return domain.InvalidSignatureError{OrderHash: orderHash, Signer: order.MakerAddress}
	}

	return nil
}

func (u *OrderStateUtils) getSidedOrderRelevantState(ctx context.Context, isMakerSide bool, order domain.SignedOrder, takerAddress common.Address) (sidedOrderRelevantState, error) {
	var (
		traderAddress common.Address
		assetData     []byte
		assetAmount   osmomath.Int
		feeAssetData  []byte
		feeAmount     osmomath.Int
	)

	if isMakerSide {
		traderAddress = order.MakerAddress
		assetData = order.MakerAssetData
		assetAmount = order.MakerAssetAmount
		feeAssetData = order.MakerFeeAssetData
		feeAmount = order.MakerFee
	} else {
		traderAddress = takerAddress
		assetData = order.TakerAssetData
		assetAmount = order.TakerAssetAmount
		feeAssetData = order.TakerFeeAssetData
		feeAmount = order.TakerFee
	}

	if len(feeAssetData) == 0 {
		feeAssetData = u.defaultFeeAssetData
	}

	isPercentageFee := string(assetData) == string(feeAssetData)

	state := sidedOrderRelevantState{isMakerSide: isMakerSide}

	var err error
	if state.traderBalance, err = u.balanceFetcher.GetBalance(ctx, assetData, traderAddress); err != nil {
		return sidedOrderRelevantState{}, err
	}

	if state.traderIndividualBalances, err = u.getIndividualAmounts(ctx, assetData, traderAddress, u.balanceFetcher.GetBalance); err != nil {
		return sidedOrderRelevantState{}, err
	}

	if state.traderProxyAllowance, err = u.balanceFetcher.GetProxyAllowance(ctx, assetData, traderAddress); err != nil {
		return sidedOrderRelevantState{}, err
	}

	if state.traderIndividualProxyAllowances, err = u.getIndividualAmounts(ctx, assetData, traderAddress, u.balanceFetcher.GetProxyAllowance); err != nil {
		return sidedOrderRelevantState{}, err
	}

	// Without any fee asset data there is no fee asset to hold.
	state.traderFeeBalance, state.traderFeeProxyAllowance = osmomath.ZeroInt(), osmomath.ZeroInt()
	if len(feeAssetData) > 0 {
		if state.traderFeeBalance, err = u.balanceFetcher.GetBalance(ctx, feeAssetData, traderAddress); err != nil {
			return sidedOrderRelevantState{}, err
		}

		if state.traderFeeProxyAllowance, err = u.balanceFetcher.GetProxyAllowance(ctx, feeAssetData, traderAddress); err != nil {
			return sidedOrderRelevantState{}, err
		}
	}

	transferrableTraderAssetAmount := sdkmath.MinInt(state.traderProxyAllowance, state.traderBalance)
	transferrableFeeAssetAmount := sdkmath.MinInt(state.traderFeeProxyAllowance, state.traderFeeBalance)

	orderHash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return sidedOrderRelevantState{}, err
	}

	if state.filledTakerAssetAmount, err = u.filledCancelledFetcher.GetFilledTakerAmount(ctx, orderHash); err != nil {
		return sidedOrderRelevantState{}, err
	}

	if state.isOrderCancelled, err = u.filledCancelledFetcher.IsOrderCancelled(ctx, order); err != nil {
		return sidedOrderRelevantState{}, err
	}

	state.remainingTakerAssetAmount = osmomath.ZeroInt()
	if !state.isOrderCancelled {
		state.remainingTakerAssetAmount = order.TakerAssetAmount.Sub(state.filledTakerAssetAmount)
	}

	remainingMakerAssetAmount := osmomath.ZeroInt()
	if state.remainingTakerAssetAmount.IsPositive() {
		remainingMakerAssetAmount, err = domain.MulDivFloor(state.remainingTakerAssetAmount, order.MakerAssetAmount, order.TakerAssetAmount)
		if err != nil {
			return sidedOrderRelevantState{}, err
		}
	}

	remainingAssetAmount := remainingMakerAssetAmount
	if !isMakerSide {
		remainingAssetAmount = sdkmath.MaxInt(state.remainingTakerAssetAmount, osmomath.ZeroInt())
	}

	state.remainingFillableAssetAmount = fillable.NewRemainingFillableCalculator(
		feeAmount,
		assetAmount,
		isPercentageFee,
		transferrableTraderAssetAmount,
		transferrableFeeAssetAmount,
		remainingAssetAmount,
	).ComputeRemainingFillable()

	return state, nil
}

type amountGetter func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error)

// getIndividualAmounts breaks an amount down per token contract, descending into multi asset data.
// Static call asset data holds no tokens and is left out.
func (u *OrderStateUtils) getIndividualAmounts(ctx context.Context, assetData []byte, traderAddress common.Address, getAmount amountGetter) (map[string]osmomath.Int, error) {
	amounts := make(map[string]osmomath.Int)
	if err := u.collectIndividualAmounts(ctx, assetData, traderAddress, getAmount, amounts, 1); err != nil {
		return nil, err
	}
	return amounts, nil
}

func (u *OrderStateUtils) collectIndividualAmounts(ctx context.Context, assetData []byte, traderAddress common.Address, getAmount amountGetter, amounts map[string]osmomath.Int, depth int) error {
	decoded, err := u.decoder.Decode(assetData)
	if err != nil {
		return err
	}

	var tokenAddress common.Address
	switch asset := decoded.(type) {
	case assetdata.ERC20AssetData:
		tokenAddress = asset.TokenAddress
	case assetdata.ERC721AssetData:
		tokenAddress = asset.TokenAddress
	case assetdata.ERC1155AssetData:
		tokenAddress = asset.TokenAddress
	case assetdata.MultiAssetData:
		if depth > assetdata.MaxNestingDepth {
			return assetdata.MaxNestingDepthExceededError{MaxDepth: assetdata.MaxNestingDepth}
		}

		for _, nestedAssetData := range asset.NestedAssetData {
			if err := u.collectIndividualAmounts(ctx, nestedAssetData, traderAddress, getAmount, amounts, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}

	amount, err := getAmount(ctx, assetData, traderAddress)
	if err != nil {
		return err
	}

	key := tokenAddress.Hex()
	if existing, ok := amounts[key]; ok {
		amount = addSaturating(existing, amount)
	}
	amounts[key] = amount

	return nil
}

// toOrderRelevantState converts the maker side state into the public order relevant state.
func toOrderRelevantState(order domain.SignedOrder, makerState sidedOrderRelevantState) (domain.OrderRelevantState, error) {
	remainingFillableTakerAssetAmount := osmomath.ZeroInt()
	if !order.MakerAssetAmount.IsZero() {
		var err error
		remainingFillableTakerAssetAmount, err = domain.MulDivFloor(makerState.remainingFillableAssetAmount, order.TakerAssetAmount, order.MakerAssetAmount)
		if err != nil {
			return domain.OrderRelevantState{}, err
		}
	}

	cancelledTakerAssetAmount := osmomath.ZeroInt()
	if makerState.isOrderCancelled {
		cancelledTakerAssetAmount = sdkmath.MaxInt(order.TakerAssetAmount.Sub(makerState.filledTakerAssetAmount), osmomath.ZeroInt())
	}

	return domain.OrderRelevantState{
		MakerBalance:                      makerState.traderBalance,
		MakerIndividualBalances:           makerState.traderIndividualBalances,
		MakerProxyAllowance:               makerState.traderProxyAllowance,
		MakerIndividualProxyAllowances:    makerState.traderIndividualProxyAllowances,
		MakerFeeBalance:                   makerState.traderFeeBalance,
		MakerFeeProxyAllowance:            makerState.traderFeeProxyAllowance,
		FilledTakerAssetAmount:            makerState.filledTakerAssetAmount,
		CancelledTakerAssetAmount:         cancelledTakerAssetAmount,
		RemainingFillableMakerAssetAmount: makerState.remainingFillableAssetAmount,
		RemainingFillableTakerAssetAmount: remainingFillableTakerAssetAmount,
	}, nil
}

// invalidOrderStateOrError reports exchange errors as an invalid order state and returns every other error.
func invalidOrderStateOrError(orderHash common.Hash, err error) (domain.OrderState, error) {
	var exchangeErr domain.ExchangeError
	if errors.As(err, &exchangeErr) {
		return domain.NewInvalidOrderState(orderHash, exchangeErr), nil
	}
	return domain.OrderState{}, err
}

// addSaturating adds two amounts, capping the sum at the unlimited allowance.
func addSaturating(a, b osmomath.Int) osmomath.Int {
	sum, err := a.SafeAdd(b)
	if err != nil || sum.GT(domain.UnlimitedAllowance) {
		return domain.UnlimitedAllowance
	}
	return sum
}
