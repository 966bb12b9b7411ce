package chain

import (
	"context"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/assetdata"
	"github.com/0x-tools/ordersim/domain/mvc"
)

// ChainStateProvider pins every session to the latest block reported by the chain info use case.
type ChainStateProvider struct {
	caller    Caller
	contracts Contracts
	decoder   assetdata.Decoder
	chainInfo mvc.ChainInfoUsecase
}

var _ domain.ChainStateProvider = &ChainStateProvider{}

// NewChainStateProvider creates a new chain state provider.
func NewChainStateProvider(caller Caller, contracts Contracts, decoder assetdata.Decoder, chainInfo mvc.ChainInfoUsecase) *ChainStateProvider {
	return &ChainStateProvider{
		caller:    caller,
		contracts: contracts,
		decoder:   decoder,
		chainInfo: chainInfo,
	}
}

// LatestChainState implements domain.ChainStateProvider.
func (p *ChainStateProvider) LatestChainState(ctx context.Context) (domain.ChainState, error) {
	blockNumber, err := p.chainInfo.GetLatestHeight(ctx)
	if err != nil {
		return domain.ChainState{}, err
	}

	return domain.ChainState{
		BlockNumber:     blockNumber,
		Balances:        NewBalanceAndProxyAllowanceFetcher(p.caller, p.contracts, p.decoder, blockNumber),
		FilledCancelled: NewOrderFilledCancelledFetcher(p.caller, p.contracts.Exchange, blockNumber),
	}, nil
}
