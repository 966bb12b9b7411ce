package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
)

// BalanceAndProxyAllowanceFetcher reads balances and asset proxy allowances at a fixed block.
//
// Amounts are expressed in units of the asset data: an ERC1155 bundle or a MultiAsset basket
// is one unit, so its balance is the number of whole units the user could transfer.
// Bridge and static call asset data are not held by the user and report unlimited amounts.
// A token call that reverts or returns undecodable data reads as zero, like a failed staticcall
// in the exchange's balance helpers. Node errors are returned.
type BalanceAndProxyAllowanceFetcher struct {
	caller      Caller
	contracts   Contracts
	decoder     assetdata.Decoder
	blockNumber *big.Int
}

var _ domain.BalanceAndProxyAllowanceFetcher = &BalanceAndProxyAllowanceFetcher{}

// NewBalanceAndProxyAllowanceFetcher returns a fetcher pinned to blockNumber.
func NewBalanceAndProxyAllowanceFetcher(caller Caller, contracts Contracts, decoder assetdata.Decoder, blockNumber uint64) *BalanceAndProxyAllowanceFetcher {
	return &BalanceAndProxyAllowanceFetcher{
		caller:      caller,
		contracts:   contracts,
		decoder:     decoder,
		blockNumber: new(big.Int).SetUint64(blockNumber),
	}
}

// GetBalance implements domain.BalanceAndProxyAllowanceFetcher.
func (f *BalanceAndProxyAllowanceFetcher) GetBalance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	decoded, err := f.decoder.Decode(assetData)
	if err != nil {
		return osmomath.Int{}, err
	}

	switch a := decoded.(type) {
	case assetdata.ERC20AssetData:
		return zeroOnCallFailure(f.erc20Balance(ctx, a, userAddress))
	case assetdata.ERC721AssetData:
		return zeroOnCallFailure(f.erc721Balance(ctx, a, userAddress))
	case assetdata.ERC1155AssetData:
		return zeroOnCallFailure(f.erc1155Balance(ctx, a, userAddress))
	case assetdata.MultiAssetData:
		return f.multiAssetAmount(ctx, assetData, userAddress, f.GetBalance)
	default:
		return domain.UnlimitedAllowance, nil
	}
}

// GetProxyAllowance implements domain.BalanceAndProxyAllowanceFetcher.
func (f *BalanceAndProxyAllowanceFetcher) GetProxyAllowance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error) {
	decoded, err := f.decoder.Decode(assetData)
	if err != nil {
		return osmomath.Int{}, err
	}

	switch a := decoded.(type) {
	case assetdata.ERC20AssetData:
		return zeroOnCallFailure(f.erc20Allowance(ctx, a, userAddress))
	case assetdata.ERC721AssetData:
		return zeroOnCallFailure(f.erc721Allowance(ctx, a, userAddress))
	case assetdata.ERC1155AssetData:
		return zeroOnCallFailure(f.erc1155Allowance(ctx, a, userAddress))
	case assetdata.MultiAssetData:
		return f.multiAssetAmount(ctx, assetData, userAddress, f.GetProxyAllowance)
	default:
		return domain.UnlimitedAllowance, nil
	}
}

func zeroOnCallFailure(amount osmomath.Int, err error) (osmomath.Int, error) {
	if err != nil && isCallFailure(err) {
		return osmomath.ZeroInt(), nil
	}
	return amount, err
}

func (f *BalanceAndProxyAllowanceFetcher) erc20Balance(ctx context.Context, a assetdata.ERC20AssetData, userAddress common.Address) (osmomath.Int, error) {
	balance, err := callUint256(ctx, f.caller, erc20ABI, a.TokenAddress, f.blockNumber, "balanceOf", userAddress)
	if err != nil {
		return osmomath.Int{}, err
	}
	return osmomath.NewIntFromBigInt(balance), nil
}

func (f *BalanceAndProxyAllowanceFetcher) erc20Allowance(ctx context.Context, a assetdata.ERC20AssetData, userAddress common.Address) (osmomath.Int, error) {
	allowance, err := callUint256(ctx, f.caller, erc20ABI, a.TokenAddress, f.blockNumber, "allowance", userAddress, f.contracts.ERC20Proxy)
	if err != nil {
		return osmomath.Int{}, err
	}
	return osmomath.NewIntFromBigInt(allowance), nil
}

func (f *BalanceAndProxyAllowanceFetcher) erc721Balance(ctx context.Context, a assetdata.ERC721AssetData, userAddress common.Address) (osmomath.Int, error) {
	owner, err := callAddress(ctx, f.caller, erc721ABI, a.TokenAddress, f.blockNumber, "ownerOf", a.TokenID)
	if err != nil {
		return osmomath.Int{}, err
	}

	if owner == userAddress {
		return osmomath.OneInt(), nil
	}
	return osmomath.ZeroInt(), nil
}

// erc721Allowance is unlimited for an operator approval and 1 for an approval of this token only.
func (f *BalanceAndProxyAllowanceFetcher) erc721Allowance(ctx context.Context, a assetdata.ERC721AssetData, userAddress common.Address) (osmomath.Int, error) {
	approvedForAll, err := callBool(ctx, f.caller, erc721ABI, a.TokenAddress, f.blockNumber, "isApprovedForAll", userAddress, f.contracts.ERC721Proxy)
	if err != nil {
		return osmomath.Int{}, err
	}
	if approvedForAll {
		return domain.UnlimitedAllowance, nil
	}

	approved, err := callAddress(ctx, f.caller, erc721ABI, a.TokenAddress, f.blockNumber, "getApproved", a.TokenID)
	if err != nil {
		return osmomath.Int{}, err
	}

	if approved == f.contracts.ERC721Proxy {
		return osmomath.OneInt(), nil
	}
	return osmomath.ZeroInt(), nil
}

// erc1155Balance is the number of whole bundles held: the min over ids of balance / value.
func (f *BalanceAndProxyAllowanceFetcher) erc1155Balance(ctx context.Context, a assetdata.ERC1155AssetData, userAddress common.Address) (osmomath.Int, error) {
	if len(a.TokenIDs) != len(a.TokenValues) {
		return osmomath.Int{}, assetdata.InvalidAssetDataError{
			Err: fmt.Errorf("erc1155 asset data has %d ids and %d values", len(a.TokenIDs), len(a.TokenValues)),
		}
	}

	bundles := domain.UnlimitedAllowance
	for i, tokenID := range a.TokenIDs {
		value := a.TokenValues[i]
		if value == nil || value.Sign() == 0 {
			continue
		}

		balance, err := callUint256(ctx, f.caller, erc1155ABI, a.TokenAddress, f.blockNumber, "balanceOf", userAddress, tokenID)
		if err != nil {
			return osmomath.Int{}, err
		}

		held := osmomath.NewIntFromBigInt(new(big.Int).Quo(balance, value))
		if held.LT(bundles) {
			bundles = held
		}
	}

	return bundles, nil
}

// erc1155Allowance is all or nothing.
func (f *BalanceAndProxyAllowanceFetcher) erc1155Allowance(ctx context.Context, a assetdata.ERC1155AssetData, userAddress common.Address) (osmomath.Int, error) {
	approved, err := callBool(ctx, f.caller, erc1155ABI, a.TokenAddress, f.blockNumber, "isApprovedForAll", userAddress, f.contracts.ERC1155Proxy)
	if err != nil {
		return osmomath.Int{}, err
	}

	if approved {
		return domain.UnlimitedAllowance, nil
	}
	return osmomath.ZeroInt(), nil
}

// multiAssetAmount is the number of whole baskets covered: the min over leaves of amountOf(leaf) / leaf amount.
func (f *BalanceAndProxyAllowanceFetcher) multiAssetAmount(
	ctx context.Context,
	assetData []byte,
	userAddress common.Address,
	amountOf func(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error),
) (osmomath.Int, error) {
	leaves, err := assetdata.DecodeMultiAssetRecursively(assetData)
	if err != nil {
		return osmomath.Int{}, err
	}

	baskets := domain.UnlimitedAllowance
	for _, leaf := range leaves {
		if leaf.Amount == nil || leaf.Amount.Sign() == 0 {
			continue
		}

		amount, err := amountOf(ctx, leaf.Encoded, userAddress)
		if err != nil {
			return osmomath.Int{}, err
		}

		// An unlimited leaf never bounds the basket.
		if domain.IsUnlimitedAllowance(amount) {
			continue
		}

		covered := osmomath.NewIntFromBigInt(new(big.Int).Quo(amount.BigInt(), leaf.Amount))
		if covered.LT(baskets) {
			baskets = covered
		}
	}

	return baskets, nil
}
