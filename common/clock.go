package common

import (
	"sync"
	"time"
)

// Clock supplies the time used to stamp transactions.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// TestClock is moved by hand and never goes backwards. A zero TestClock
// reports the zero time, which the signer treats as an unavailable
// clock.
type TestClock struct {
	lock sync.Mutex
	now  time.Time
}

func NewTestClock(t time.Time) *TestClock {
	return &TestClock{now: t}
}

func (c *TestClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *TestClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
}

// SetTime moves the clock to t unless t is earlier than now.
func (c *TestClock) SetTime(t time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if t.After(c.now) {
		c.now = t
	}
}
