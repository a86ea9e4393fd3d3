package incperf

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Counter is a shared counter that is safe to increment from any number of
// goroutines. Value is only deterministic once every Increment has returned
// and the callers have been joined.
type Counter interface {
	Increment()
	Value() int64
}

const (
	VariantMutex  = "mutex"
	VariantAtomic = "atomic"
)

// NewCounter returns a fresh zero counter for the given variant name.
func NewCounter(variant string) (Counter, error) {
	switch variant {
	case VariantMutex:
		return NewMutexCounter(0), nil
	case VariantAtomic:
		return NewAtomicCounter(0), nil
	}
	return nil, fmt.Errorf("unknown counter variant %q", variant)
}

// MutexCounter guards its value with a lock. Every increment takes the write
// lock, so increments from all workers serialize on the one mutex.
type MutexCounter struct {
	val int64
	m   *sync.RWMutex
}

func NewMutexCounter(n int64) *MutexCounter {
	return &MutexCounter{val: n, m: &sync.RWMutex{}}
}

func (c *MutexCounter) Increment() {
	c.m.Lock()
	defer c.m.Unlock()
	c.val += 1
}

func (c *MutexCounter) Value() int64 {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.val
}

// AtomicCounter does the read-modify-write as a single hardware atomic add.
// No lock, so a worker never blocks on another worker's increment.
type AtomicCounter struct {
	val atomic.Int64
}

func NewAtomicCounter(n int64) *AtomicCounter {
	c := &AtomicCounter{}
	c.val.Store(n)
	return c
}

func (c *AtomicCounter) Increment() {
	c.val.Add(1)
}

func (c *AtomicCounter) Value() int64 {
	return c.val.Load()
}
