package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process counters keyed by route, method and outcome.
// Counts live in memory only; there is no export surface.
type Metrics struct {
	mu       sync.RWMutex
	requests map[string]int64
	errors   map[string]int64
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts one served request by route, method and status.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.bump(m.requests, requestKey(path, method, status))
}

// RecordError counts one surfaced error by route, method and error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.bump(m.errors, path+"|"+method+"|"+code)
}

// RequestTotal returns the count recorded for one route/method/status.
func (m *Metrics) RequestTotal(path, method string, status int) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[requestKey(path, method, status)]
}

// ErrorTotal returns the count recorded for one route/method/error code.
func (m *Metrics) ErrorTotal(path, method, code string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errors[path+"|"+method+"|"+code]
}

func (m *Metrics) bump(counters map[string]int64, key string) {
	m.mu.Lock()
	counters[key]++
	m.mu.Unlock()
}

func requestKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
