package mocks

import (
	"time"

	"github.com/0x-tools/ordersim/ordersimutil/datafetchers"
)

// FetcherMock is a mock implementation of datafetchers.Fetcher.
type FetcherMock[T any] struct {
	GetFunc func() (T, time.Time, error)

	RefetchInterval time.Duration
}

var _ datafetchers.Fetcher[uint64] = &FetcherMock[uint64]{}

// NewFetcherMock returns a fetcher that always yields value and err.
func NewFetcherMock[T any](value T, err error) *FetcherMock[T] {
	m := &FetcherMock[T]{RefetchInterval: time.Second}
	m.WithValue(value, err)
	return m
}

// Get implements datafetchers.Fetcher.
func (m *FetcherMock[T]) Get() (T, time.Time, error) {
	if m.GetFunc == nil {
		panic("GetFunc is not set")
	}
	return m.GetFunc()
}

// GetRefetchInterval implements datafetchers.Fetcher.
func (m *FetcherMock[T]) GetRefetchInterval() time.Duration {
	return m.RefetchInterval
}

// WithValue sets the value and error returned by Get.
func (m *FetcherMock[T]) WithValue(value T, err error) {
	m.GetFunc = func() (T, time.Time, error) {
		return value, time.Now(), err
	}
}
