package fees

import (
	"context"
	"sync"
	"time"

	"github.com/ordshop/trainer-minter/internal/metrics"
)

const pollInterval = 60 * time.Second

// Advisor keeps the latest fee snapshot fresh while running. A failed poll
// leaves the last-known snapshot in place.
type Advisor struct {
	mu     sync.Mutex
	latest FeeRates
	client *Client
	stop   chan struct{}
	done   chan struct{}
}

func NewAdvisor(client *Client) *Advisor {
	return &Advisor{
		latest: DefaultRates,
		client: client,
	}
}

// Start fetches once synchronously, then polls every minute until Stop.
func (a *Advisor) Start(ctx context.Context) {
	a.refresh(ctx)
	a.stop = make(chan struct{})
	a.done = make(chan struct{})

	go func() {
		defer close(a.done)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.refresh(ctx)
			case <-a.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (a *Advisor) Stop() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop = nil
}

func (a *Advisor) refresh(ctx context.Context) {
	rates, err := a.client.fetch(ctx)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.latest = rates
	a.mu.Unlock()
	metrics.CurrentHalfHourFee.Set(float64(rates.HalfHourFee))
}

func (a *Advisor) Current() FeeRates {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// Recommend resolves the fee rate for a mint. A selection of exactly 1 is
// the unset placeholder and falls back to the half-hour tier the same way a
// missing selection does.
func (a *Advisor) Recommend(selected int) int {
	if selected > 1 {
		return selected
	}
	return a.Current().HalfHourFee
}
