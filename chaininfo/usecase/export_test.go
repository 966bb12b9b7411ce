package usecase

import "time"

// SetNow overrides the clock of a chain info use case.
func SetNow(p *chainInfoUseCase, now func() time.Time) {
	p.now = now
}
