package datafetchers

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Fetcher is an interface that provides a method to get a value.
type Fetcher[T any] interface {
	Get() (T, time.Time, error)
	GetRefetchInterval() time.Duration
}

var (
	// ErrNoValue is returned by Get before the first successful update.
	ErrNoValue = errors.New("no cached value has ever been retrieved")
	// ErrClosed is returned by Get once the fetcher is closed.
	ErrClosed = errors.New("prefetcher has been closed")
)

// IntervalFetcher is a struct that prefetches a value at a given interval
// and provides a method to get the latest value.
// NOTE: It may return stale data if the update function takes longer than the interval
// or keeps failing. Callers decide how stale is too stale from the retrieval time.
type IntervalFetcher[T any] struct {
	updateFn func(ctx context.Context) (T, error)
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	firstResult     chan struct{}
	firstResultOnce sync.Once

	mutex             sync.RWMutex
	hasClosed         bool
	lastRetrievedTime time.Time
	lastErr           error
	cache             T
}

var _ Fetcher[int] = &IntervalFetcher[int]{}

// NewIntervalFetcher starts fetching immediately and then once every interval until Close is called.
func NewIntervalFetcher[T any](updateFn func(ctx context.Context) (T, error), interval time.Duration) *IntervalFetcher[T] {
	if interval <= 0 {
		panic("interval must be greater than 0")
	}

	ctx, cancel := context.WithCancel(context.Background())

	prefetcher := &IntervalFetcher[T]{
		updateFn:    updateFn,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
		firstResult: make(chan struct{}),
	}

	go prefetcher.run()

	return prefetcher
}

func (p *IntervalFetcher[T]) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.prefetch()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.prefetch()
		}
	}
}

func (p *IntervalFetcher[T]) prefetch() {
	newValue, err := p.updateFn(p.ctx)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err != nil {
		// The cached value is kept and goes stale, signaling the failure to the client.
		p.lastErr = err
		return
	}

	p.lastErr = nil
	p.lastRetrievedTime = time.Now()
	p.cache = newValue

	p.firstResultOnce.Do(func() { close(p.firstResult) })
}

// Get returns the latest value and the time it was last retrieved.
// If no value has ever been retrieved, it returns ErrNoValue joined with the last update error.
func (p *IntervalFetcher[T]) Get() (T, time.Time, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.hasClosed {
		var zero T
		return zero, time.Time{}, ErrClosed
	}

	if p.lastRetrievedTime.IsZero() {
		return p.cache, time.Time{}, errors.Join(ErrNoValue, p.lastErr)
	}

	return p.cache, p.lastRetrievedTime, nil
}

// LastError returns the error of the latest update, or nil if it succeeded.
func (p *IntervalFetcher[T]) LastError() error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.lastErr
}

// WaitUntilFirstResult blocks until the first successful update or until ctx is done.
func (p *IntervalFetcher[T]) WaitUntilFirstResult(ctx context.Context) error {
	select {
	case <-p.firstResult:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops fetching. Get fails afterwards.
func (p *IntervalFetcher[T]) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.hasClosed = true
	p.cancel()
}

func (p *IntervalFetcher[T]) GetRefetchInterval() time.Duration {
	return p.interval
}
