package incperf

import (
	"sync"
)

// WorkerMap tallies completed increments per worker id. It only feeds the
// progress stats; the benchmarked counter never goes through it.
type WorkerMap struct {
	mp    map[int]int64
	mutex sync.RWMutex
}

func NewWorkerMap() *WorkerMap {
	return &WorkerMap{
		mp: map[int]int64{},
	}
}

func (m *WorkerMap) Add(worker int, n int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.mp[worker] += n
}

func (m *WorkerMap) Get(worker int) (int64, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	v, ok := m.mp[worker]
	return v, ok
}

// Total sums the tallies of all workers.
func (m *WorkerMap) Total() int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var total int64
	for _, v := range m.mp {
		total += v
	}
	return total
}

// Snapshot copies the current tallies.
func (m *WorkerMap) Snapshot() map[int]int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	snap := make(map[int]int64, len(m.mp))
	for k, v := range m.mp {
		snap[k] = v
	}
	return snap
}
