// Package faults injects simulated infrastructure failures.
package faults

import (
	"errors"
	"math/rand/v2"
	"sync"
)

var (
	// ErrTransientNetwork is a simulated, retryable network failure.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrGeolocationUnavailable is a simulated failure to resolve the caller's location.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
)

// IsRetryable reports whether err is one of the injected faults a caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientNetwork) || errors.Is(err, ErrGeolocationUnavailable)
}

// Rates are per-call probabilities in [0,1].
type Rates struct {
	Network     float64
	Geolocation float64
}

// DefaultRates are the canonical injection probabilities.
var DefaultRates = Rates{Network: 0.03, Geolocation: 0.10}

// Injector rolls unseeded dice for each fault class.
type Injector struct {
	rates Rates
	mu    sync.Mutex
	roll  func() float64
}

// New creates an Injector drawing from the global math/rand/v2 source.
func New(rates Rates) *Injector {
	return &Injector{rates: clampRates(rates), roll: rand.Float64}
}

// NewWithRand creates an Injector drawing from r. r is guarded by the Injector.
func NewWithRand(rates Rates, r *rand.Rand) *Injector {
	return &Injector{rates: clampRates(rates), roll: r.Float64}
}

// Disabled returns an Injector that never fails.
func Disabled() *Injector {
	return New(Rates{})
}

func clampRates(r Rates) Rates {
	return Rates{Network: clamp(r.Network), Geolocation: clamp(r.Geolocation)}
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Rates returns the configured probabilities.
func (i *Injector) Rates() Rates { return i.rates }

func (i *Injector) hit(p float64) bool {
	if p <= 0 {
		return false
	}
	i.mu.Lock()
	v := i.roll()
	i.mu.Unlock()
	return v < p
}

// Network returns ErrTransientNetwork with the configured probability.
func (i *Injector) Network() error {
	if i.hit(i.rates.Network) {
		return ErrTransientNetwork
	}
	return nil
}

// Geolocation returns ErrGeolocationUnavailable with the configured probability.
func (i *Injector) Geolocation() error {
	if i.hit(i.rates.Geolocation) {
		return ErrGeolocationUnavailable
	}
	return nil
}
