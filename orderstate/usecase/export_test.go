package orderstateusecase

import "time"

// SetNow replaces the clock used for expiration checks.
func (o *OrderStateUseCaseImpl) SetNow(now func() time.Time) {
	o.now = now
}
