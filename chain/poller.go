package chain

import (
	"context"
	"sync"
	"time"
)

// Poller invokes a refetch function at a fixed cadence until stopped. Every
// poller is owned by exactly one view or service instance; Stop must be
// called on teardown so no timer outlives its owner and keeps mutating
// dead state.
type Poller struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller starts polling immediately: one invocation of fn per interval
// tick until Stop. fn receives a context cancelled by Stop.
func NewPoller(interval time.Duration, fn func(ctx context.Context)) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	return p
}

// Stop cancels the poller and waits for the loop to exit. Safe to call more
// than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		<-p.done
	})
}
