// Package cache holds recently computed analysis reports in memory with a
// bounded first-in-first-out eviction policy.
package cache

import (
	"sync"

	"github.com/bizsight/bizsight/internal/model"
)

// DefaultCapacity is the report capacity used when none is configured.
const DefaultCapacity = 50

// ReportCache is a bounded FIFO cache keyed by report identifier. Safe
// for concurrent use. Insertion order is tracked explicitly rather than
// relying on map iteration order.
type ReportCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]*model.AnalysisReport
}

// New creates a ReportCache with the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *ReportCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ReportCache{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		entries:  make(map[string]*model.AnalysisReport, capacity),
	}
}

// Put inserts a report, evicting the oldest entry when full. Re-inserting
// an existing identifier replaces the value without changing its position.
func (c *ReportCache) Put(report *model.AnalysisReport) {
	if report == nil || report.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[report.ID]; exists {
		c.entries[report.ID] = report
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.order = append(c.order, report.ID)
	c.entries[report.ID] = report
}

// Get returns the cached report for id, or nil.
func (c *ReportCache) Get(id string) *model.AnalysisReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[id]
}

// Len reports the number of cached entries.
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
