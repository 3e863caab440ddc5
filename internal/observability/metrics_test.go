package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCountsByOutcome(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/v1/requests", "POST", 201, 5*time.Millisecond)
	m.RecordRequest("/api/v1/requests", "POST", 201, 7*time.Millisecond)
	m.RecordRequest("/api/v1/requests", "POST", 400, time.Millisecond)
	m.RecordError("/api/v1/requests", "POST", "VALIDATION_FAILED")

	assert.Equal(t, int64(2), m.RequestTotal("/api/v1/requests", "POST", 201))
	assert.Equal(t, int64(1), m.RequestTotal("/api/v1/requests", "POST", 400))
	assert.Zero(t, m.RequestTotal("/api/v1/requests", "GET", 200))
	assert.Equal(t, int64(1), m.ErrorTotal("/api/v1/requests", "POST", "VALIDATION_FAILED"))
}

func TestMetricsNilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/health/live", "GET", 200, 0)
	m.RecordError("/health/live", "GET", "INTERNAL_ERROR")
}

func TestMetricsConcurrentRecording(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordRequest("/api/v1/requests", "GET", 200, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(800), m.RequestTotal("/api/v1/requests", "GET", 200))
}
