package knowledge

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerPort wraps a Port's Save with a circuit breaker so a backend
// that keeps failing stops being hammered on every mutation. Saves are
// best-effort already; the breaker just turns a stream of timeouts into
// fast rejections until the backend recovers. Load passes through
// untouched since it runs once at startup.
type BreakerPort struct {
	inner   Port
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerPort wraps inner with a breaker that trips after three
// consecutive save failures and probes again after 30 seconds
func NewBreakerPort(inner Port, logger *zap.Logger) *BreakerPort {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:    "knowledge-save",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("persistence breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BreakerPort{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Load delegates to the wrapped port
func (p *BreakerPort) Load(ctx context.Context) (*Snapshot, error) {
	return p.inner.Load(ctx)
}

// Save delegates through the breaker
func (p *BreakerPort) Save(ctx context.Context, snap *Snapshot) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.inner.Save(ctx, snap)
	})
	return err
}

// Close delegates to the wrapped port
func (p *BreakerPort) Close() error {
	return p.inner.Close()
}
