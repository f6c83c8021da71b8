package observability

import (
	"strconv"
	"sync"
	"time"
)

// Collector records operation outcomes. It is injected into the workflow
// service and HTTP layer so nothing in the core holds global mutable state;
// tests pass their own instance instead of resetting a shared registry.
type Collector interface {
	RecordRequest(path, method string, status int, duration time.Duration)
	RecordOperation(operation string)
	RecordError(operation, code string)
}

// InMemoryCollector keeps counters in process memory.
type InMemoryCollector struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	operationCount map[string]int64
	errorCount     map[string]int64
}

// NewCollector initializes an in-memory collector.
func NewCollector() *InMemoryCollector {
	return &InMemoryCollector{
		requestCount:   make(map[string]int64),
		operationCount: make(map[string]int64),
		errorCount:     make(map[string]int64),
	}
}

// RecordRequest increments the counter for an HTTP request.
func (m *InMemoryCollector) RecordRequest(path, method string, status int, _ time.Duration) {
	m.bump(m.requestCount, path+"|"+method+"|"+strconv.Itoa(status))
}

// RecordOperation increments the counter for a successful workflow operation.
func (m *InMemoryCollector) RecordOperation(operation string) {
	m.bump(m.operationCount, operation)
}

// RecordError increments the counter for a failed operation.
func (m *InMemoryCollector) RecordError(operation, code string) {
	m.bump(m.errorCount, operation+"|"+code)
}

// OperationCount returns the recorded count for an operation.
func (m *InMemoryCollector) OperationCount(operation string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.operationCount[operation]
}

func (m *InMemoryCollector) bump(counters map[string]int64, key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	counters[key]++
}
