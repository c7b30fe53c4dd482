package tracker

import (
	"context"
	"sync"
	"time"
)

// FetchMode tells whether a fetch is the initial one of a session or one of
// the periodic background refreshes.
type FetchMode int

const (
	FetchInitial FetchMode = iota
	FetchBackground
)

func (m FetchMode) String() string {
	if m == FetchInitial {
		return "initial"
	}
	return "background"
}

// FetchFunc fetches and applies a trade record.
type FetchFunc func(ctx context.Context, mode FetchMode)

// Poller invokes a FetchFunc once immediately and then every interval until
// stopped. Every invocation runs in its own goroutine, the schedule never
// waits for a fetch to complete.
type Poller struct {
	interval time.Duration

	lock        sync.Mutex
	initialDone bool
	running     bool
	quit        chan struct{}
}

// NewPoller returns a poller with the given interval. If initialDone is true,
// the poller skips the initial fetch and goes straight to background polling.
func NewPoller(interval time.Duration, initialDone bool) *Poller {
	return &Poller{
		interval:    interval,
		initialDone: initialDone,
	}
}

// Start starts the schedule. The initial fetch is issued at most once per
// poller, a Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context, fetch FetchFunc) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.quit = make(chan struct{})

	// The flag is set before spawning the fetch so that concurrent Starts
	// cannot issue two initial fetches.
	if !p.initialDone {
		p.initialDone = true
		go fetch(ctx, FetchInitial)
	}

	go p.loop(ctx, p.quit, fetch)
}

// Stop cancels the schedule. In-flight fetches are not aborted. It is safe
// to call Stop multiple times.
func (p *Poller) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.running {
		return
	}
	p.running = false
	close(p.quit)
}

// IsRunning returns whether the schedule is active.
func (p *Poller) IsRunning() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.running
}

func (p *Poller) loop(ctx context.Context, quit chan struct{}, fetch FetchFunc) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ctx.Done():
			p.lock.Lock()
			if p.quit == quit && p.running {
				p.running = false
				close(quit)
			}
			p.lock.Unlock()
			return
		case <-ticker.C:
			select {
			case <-quit:
				return
			default:
			}
			go fetch(ctx, FetchBackground)
		}
	}
}
