package simulator

import (
	"context"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/log"
	"github.com/0x-tools/ordersim/orderstate/telemetry"
)

// ExchangeTransferSimulator replays asset proxy transfers against a lazy store,
// failing where the exchange contract would revert.
//
// Transfers are not atomic. A MultiAsset transfer whose legs decode but run out of funds
// part way leaves the legs before the failing one applied to the store, so a session that
// saw a failed transfer should discard its store.
type ExchangeTransferSimulator struct {
	store  domain.BalanceAndProxyAllowanceStore
	logger log.Logger
}

var _ domain.TransferSimulator = &ExchangeTransferSimulator{}

// New creates a simulator that reads and records balances through store.
func New(store domain.BalanceAndProxyAllowanceStore, logger log.Logger) *ExchangeTransferSimulator {
	return &ExchangeTransferSimulator{
		store:  store,
		logger: logger,
	}
}

// TransferFrom implements domain.TransferSimulator.
// side and transferType only label the error returned when funds are insufficient.
// Asset proxies other than ERC20, ERC721, ERC1155 and MultiAsset are not simulated and succeed without effect.
// A MultiAsset basket is decoded in full before any leg is applied, so malformed, unknown or too deeply
// nested legs fail the transfer without touching the store.
func (s *ExchangeTransferSimulator) TransferFrom(ctx context.Context, assetData []byte, from, to common.Address, amount osmomath.Int, side domain.TradeSide, transferType domain.TransferType) error {
	proxyID, err := assetdata.DecodeProxyID(assetData)
	if err != nil {
		return err
	}

	switch proxyID {
	case assetdata.ERC20ProxyID, assetdata.ERC721ProxyID, assetdata.ERC1155ProxyID:
		return s.transferToken(ctx, proxyID, assetData, from, to, amount, side, transferType)
	case assetdata.MultiAssetProxyID:
		leaves, err := assetdata.DecodeMultiAssetRecursively(assetData)
		if err != nil {
			return err
		}

		leafAmounts := make([]osmomath.Int, 0, len(leaves))
		for _, leaf := range leaves {
			leafAmount := new(big.Int).Mul(amount.BigInt(), leaf.Amount)
			if leafAmount.BitLen() > sdkmath.MaxBitLen {
				return domain.AmountOverflowError{Value: leafAmount.String()}
			}
			leafAmounts = append(leafAmounts, osmomath.NewIntFromBigInt(leafAmount))
		}

		for i, leaf := range leaves {
			if err := s.TransferFrom(ctx, leaf.Encoded, from, to, leafAmounts[i], side, transferType); err != nil {
				return err
			}
		}

		return nil
	default:
		s.logger.Warn("skipping transfer of unsupported asset proxy",
			zap.Stringer("proxy_id", proxyID),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
			zap.Stringer("amount", amount),
		)
		telemetry.SimulatorUnsupportedAssetProxyCounter.WithLabelValues(proxyID.String()).Inc()
		return nil
	}
}

func (s *ExchangeTransferSimulator) transferToken(ctx context.Context, proxyID assetdata.ProxyID, assetData []byte, from, to common.Address, amount osmomath.Int, side domain.TradeSide, transferType domain.TransferType) error {
	// An open order has no taker yet. Credit the receiver without debiting anyone.
	if from == domain.NullAddress && side == domain.TradeSideTaker {
		return s.increaseBalance(ctx, assetData, to, amount)
	}

	balance, err := s.store.GetBalance(ctx, assetData, from)
	if err != nil {
		return err
	}

	allowance, err := s.store.GetProxyAllowance(ctx, assetData, from)
	if err != nil {
		return err
	}

	if allowance.LT(amount) {
		return domain.InsufficientFundsError{
			Side:     side,
			Transfer: transferType,
			Kind:     domain.FundsKindAllowance,
			Address:  from,
			Required: amount,
			Actual:   allowance,
		}
	}

	if balance.LT(amount) {
		return domain.InsufficientFundsError{
			Side:     side,
			Transfer: transferType,
			Kind:     domain.FundsKindBalance,
			Address:  from,
			Required: amount,
			Actual:   balance,
		}
	}

	// ERC1155 approval is all or nothing.
	if proxyID != assetdata.ERC1155ProxyID && !domain.IsUnlimitedAllowance(allowance) {
		s.store.SetProxyAllowance(assetData, from, allowance.Sub(amount))
	}

	s.store.SetBalance(assetData, from, balance.Sub(amount))

	return s.increaseBalance(ctx, assetData, to, amount)
}

func (s *ExchangeTransferSimulator) increaseBalance(ctx context.Context, assetData []byte, userAddress common.Address, amount osmomath.Int) error {
	balance, err := s.store.GetBalance(ctx, assetData, userAddress)
	if err != nil {
		return err
	}

	newBalance, err := balance.SafeAdd(amount)
	if err != nil {
		return domain.AmountOverflowError{Value: err.Error()}
	}

	s.store.SetBalance(assetData, userAddress, newBalance)
	return nil
}
