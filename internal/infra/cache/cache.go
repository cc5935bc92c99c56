// Package cache provides the in-memory TTL caches that sit in front of
// the external read APIs (exchange rates, stock quotes, headlines). Each
// cache owns a janitor goroutine; callers that outlive the process
// lifetime should Close it.
package cache

import (
	"sync"
	"time"

	"github.com/smartwallet/bff-go/internal/port"
)

// Sweep interval bounds for the janitor. Rate caches run on hour-long
// TTLs while quote caches expire in minutes; sweeping at ttl/2 within
// these bounds keeps both from holding dead entries for long.
const (
	minSweep = time.Second
	maxSweep = time.Minute
)

type entry[T any] struct {
	value    T
	deadline time.Time
}

// TTLMap is a mutex-guarded map cache with a fixed per-cache TTL.
// Expired entries are dropped eagerly on read and swept periodically
// by a janitor goroutine.
type TTLMap[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

var _ port.Cache[int] = (*TTLMap[int])(nil)

// New creates a cache whose entries live for ttl after each Set.
func New[T any](ttl time.Duration) *TTLMap[T] {
	c := &TTLMap[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key. An expired entry counts as a
// miss and is removed on the spot.
func (c *TTLMap[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(e.deadline) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, restarting its TTL.
func (c *TTLMap[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, deadline: time.Now().Add(c.ttl)}
}

// Delete removes key if present.
func (c *TTLMap[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len reports the number of entries, expired ones included until the
// next read or sweep touches them.
func (c *TTLMap[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Close stops the janitor. Safe to call more than once.
func (c *TTLMap[T]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *TTLMap[T]) janitor() {
	sweep := c.ttl / 2
	if sweep < minSweep {
		sweep = minSweep
	}
	if sweep > maxSweep {
		sweep = maxSweep
	}

	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.deadline) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
