package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter's injectable clock in tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(capacity int, period time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(Config{Capacity: capacity, Period: period}, nil)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_ExhaustAndRefill(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("Allow() call %d = false, want true", i+1)
		}
	}

	if l.Allow("1.2.3.4") {
		t.Error("11th Allow() = true, want false (bucket exhausted)")
	}

	// Still inside the period: no refill.
	clock.Advance(30 * time.Second)
	if l.Allow("1.2.3.4") {
		t.Error("Allow() mid-period = true, want false")
	}

	// A full period elapsed: bucket resets to capacity.
	clock.Advance(30 * time.Second)
	for i := 0; i < 10; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("post-refill Allow() call %d = false, want true", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("Allow() after refilled budget spent = true, want false")
	}
}

func TestLimiter_IntervalRefillNotDrip(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		l.Allow("client")
	}

	// Half a period buys nothing; interval refill is all-or-nothing.
	clock.Advance(59 * time.Second)
	if l.Allow("client") {
		t.Error("Allow() at 59s = true, want false (no partial refill)")
	}
	clock.Advance(time.Second)
	if !l.Allow("client") {
		t.Error("Allow() at 60s = false, want true (full refill)")
	}
}

func TestLimiter_IndependentClients(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)

	l.Allow("a")
	l.Allow("a")
	if l.Allow("a") {
		t.Error("client a over budget but Allow() = true")
	}

	// A different identity gets a fresh bucket.
	if !l.Allow("b") {
		t.Error("client b first Allow() = false, want true")
	}
}

func TestLimiter_MultiplePeriodsElapsed(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("c")
	}

	// Several idle periods still refill only to capacity, not capacity*n.
	clock.Advance(5 * time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("c") {
			t.Fatalf("Allow() call %d after idle = false, want true", i+1)
		}
	}
	if l.Allow("c") {
		t.Error("Allow() past capacity after idle = true, want false")
	}
}

func TestLimiter_ConcurrentDistinctKeys(t *testing.T) {
	l, _ := newTestLimiter(100, time.Minute)

	var wg sync.WaitGroup
	denied := make([]bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			for j := 0; j < 100; j++ {
				if !l.Allow(key) {
					denied[i] = true
				}
			}
		}()
	}
	wg.Wait()

	for i, d := range denied {
		if d {
			t.Errorf("client %d denied within its own budget", i)
		}
	}
}
