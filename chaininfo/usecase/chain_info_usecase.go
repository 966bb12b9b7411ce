package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mvc"
	"github.com/0x-tools/ordersim/ordersimutil/datafetchers"
)

type chainInfoUseCase struct {
	blockNumberFetcher datafetchers.Fetcher[uint64]

	// N.B. sometimes the node gets stuck and does not make progress while still answering calls.
	// As a result, we need to keep track of the last seen height and time to ensure that the height is
	// updated within a reasonable time frame.
	maxAllowedHeightUpdateTimeDeltaSecs int

	lastSeenMx          sync.Mutex
	lastSeenHeight      uint64
	lastSeenUpdatedTime time.Time

	now func() time.Time
}

var _ mvc.ChainInfoUsecase = &chainInfoUseCase{}

// NewChainInfoUsecase creates a chain info use case reading block numbers from blockNumberFetcher.
// A non positive maxAllowedHeightUpdateTimeDeltaSecs disables the staleness check, which dev chains
// that only mine on demand need.
func NewChainInfoUsecase(blockNumberFetcher datafetchers.Fetcher[uint64], maxAllowedHeightUpdateTimeDeltaSecs int) *chainInfoUseCase {
	return &chainInfoUseCase{
		blockNumberFetcher:                  blockNumberFetcher,
		maxAllowedHeightUpdateTimeDeltaSecs: maxAllowedHeightUpdateTimeDeltaSecs,
		now:                                 time.Now,
	}
}

// GetLatestHeight implements mvc.ChainInfoUsecase.
func (p *chainInfoUseCase) GetLatestHeight(ctx context.Context) (uint64, error) {
	latestHeight, _, err := p.blockNumberFetcher.Get()
	if err != nil {
		return 0, err
	}

	p.lastSeenMx.Lock()
	defer p.lastSeenMx.Unlock()

	currentTimeUTC := p.now().UTC()

	if latestHeight > p.lastSeenHeight {
		p.lastSeenHeight = latestHeight
		p.lastSeenUpdatedTime = currentTimeUTC
		return latestHeight, nil
	}

	// Time since the height last advanced
	timeDeltaSecs := int(currentTimeUTC.Sub(p.lastSeenUpdatedTime).Seconds())

	if p.maxAllowedHeightUpdateTimeDeltaSecs > 0 && timeDeltaSecs > p.maxAllowedHeightUpdateTimeDeltaSecs {
		return 0, domain.StaleHeightError{
			StoredHeight:            latestHeight,
			TimeSinceLastUpdate:     timeDeltaSecs,
			MaxAllowedTimeDeltaSecs: p.maxAllowedHeightUpdateTimeDeltaSecs,
		}
	}

	return p.lastSeenHeight, nil
}

// NewBlockNumberFetcher prefetches the latest block number every interval.
func NewBlockNumberFetcher(getBlockNumber func(ctx context.Context) (uint64, error), interval time.Duration) *datafetchers.IntervalFetcher[uint64] {
	return datafetchers.NewIntervalFetcher(getBlockNumber, interval)
}
