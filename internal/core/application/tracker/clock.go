package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SharedClock is a process-wide ticker fanning out its ticks to every
// subscriber. It runs a single goroutine, started with the first subscriber
// and stopped with the last one.
type SharedClock struct {
	interval time.Duration

	lock        sync.Mutex
	subscribers map[string]chan time.Time
	quit        chan struct{}
}

// DefaultClock ticks every second.
var DefaultClock = NewSharedClock(time.Second)

// NewSharedClock returns a clock ticking every interval.
func NewSharedClock(interval time.Duration) *SharedClock {
	return &SharedClock{
		interval:    interval,
		subscribers: make(map[string]chan time.Time),
	}
}

// Subscribe returns the id of the subscription and the channel receiving
// the ticks. Ticks are dropped for subscribers that are not keeping up.
func (c *SharedClock) Subscribe() (string, <-chan time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()

	id := uuid.New().String()
	ch := make(chan time.Time, 1)
	c.subscribers[id] = ch

	if c.quit == nil {
		c.quit = make(chan struct{})
		go c.run(c.quit)
	}
	return id, ch
}

// Unsubscribe closes the channel of the given subscription.
func (c *SharedClock) Unsubscribe(id string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	ch, ok := c.subscribers[id]
	if !ok {
		return
	}
	delete(c.subscribers, id)
	close(ch)

	if len(c.subscribers) == 0 && c.quit != nil {
		close(c.quit)
		c.quit = nil
	}
}

// Subscribers returns the number of active subscriptions.
func (c *SharedClock) Subscribers() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.subscribers)
}

// IsRunning returns whether the clock is ticking.
func (c *SharedClock) IsRunning() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.quit != nil
}

func (c *SharedClock) run(quit chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case now := <-ticker.C:
			c.broadcast(quit, now)
		}
	}
}

func (c *SharedClock) broadcast(quit chan struct{}, now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()

	// The clock may have been stopped and restarted meanwhile.
	if c.quit != quit {
		return
	}
	for _, ch := range c.subscribers {
		select {
		case ch <- now:
		default:
		}
	}
}
