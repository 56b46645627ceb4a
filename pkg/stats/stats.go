// Package stats maintains the server's five process-wide counters and
// reports them, on SIGHUP, to the diagnostic stream — plus, as a
// domain-stack addition, via a Prometheus-compatible /metrics endpoint.
package stats

import (
	"sync"
)

// Snapshot is an immutable copy of the five counters at one instant.
type Snapshot struct {
	Connected  uint64
	Serviced   uint64
	Success    uint64
	Unsuccess  uint64
	Operations uint64
}

// Collector guards the five counters behind a single mutex so that the
// reporter always observes a consistent five-tuple, never a partial update
// from an in-flight worker.
type Collector struct {
	mu sync.Mutex
	s  Snapshot
}

// NewCollector returns a zeroed Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// ConnectionOpened increments connected. Called once per accepted
// connection, before the first request on it is read.
func (c *Collector) ConnectionOpened() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Connected++
}

// ConnectionClosed decrements connected and increments serviced. Called
// exactly once per connection, when it is released.
func (c *Collector) ConnectionClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Connected--
	c.s.Serviced++
}

// RequestSucceeded increments success.
func (c *Collector) RequestSucceeded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Success++
}

// RequestFailed increments unsuccess.
func (c *Collector) RequestFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Unsuccess++
}

// StageCompleted increments operations. Called once per pipeline stage that
// returned a usable bitmap; a failed stage never calls this.
func (c *Collector) StageCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Operations++
}

// AddOperations adds n completed stages to operations in one critical
// section; used by callers that already know how many stages a pipeline run
// completed instead of calling StageCompleted once per stage.
func (c *Collector) AddOperations(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Operations += uint64(n)
}

// Snapshot returns a consistent copy of all five counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
