package monitoring

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivityMonitor_Counters(t *testing.T) {
	m := NewActivityMonitor()

	m.RecordHTTPRequest()
	m.RecordHTTPRequest()
	m.RecordWebSocketConnection()
	m.RecordUIMessage(false)
	m.RecordUIMessage(true)
	m.RecordMutation(true)
	m.RecordMutation(true)
	m.RecordMutation(false)

	metrics := m.Metrics()
	assert.Equal(t, int64(2), metrics.HTTPRequests)
	assert.Equal(t, int64(1), metrics.WebSocketConnections)
	assert.Equal(t, int64(2), metrics.UIMessages)
	assert.Equal(t, int64(1), metrics.RejectedMessages)
	assert.Equal(t, int64(2), metrics.MutationsApplied)
	assert.Equal(t, int64(1), metrics.MutationsIgnored)
	assert.Positive(t, metrics.GoroutineCount)
	assert.Positive(t, metrics.MemoryBytes)
	assert.True(t, metrics.Healthy)
}

func TestActivityMonitor_RenderAverage(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
		wantMs    int64
	}{
		{name: "first render sets the average", durations: []time.Duration{100 * time.Millisecond}, wantMs: 100},
		{name: "later renders move it by a tenth", durations: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, wantMs: 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewActivityMonitor()
			for _, d := range tt.durations {
				m.RecordEditorRender(d)
			}
			metrics := m.Metrics()
			assert.Equal(t, int64(len(tt.durations)), metrics.EditorRenders)
			assert.Equal(t, tt.wantMs, metrics.AverageRenderMillis)
		})
	}
}

func TestActivityMonitor_Uptime(t *testing.T) {
	m := NewActivityMonitor()
	start := m.started
	m.now = func() time.Time { return start.Add(90 * time.Second) }

	metrics := m.Metrics()
	assert.Equal(t, "1m30s", metrics.Uptime)
	assert.Equal(t, start, metrics.StartedAt)
}

func TestActivityMonitor_Concurrent(t *testing.T) {
	m := NewActivityMonitor()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.RecordHTTPRequest()
				m.RecordMutation(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	metrics := m.Metrics()
	assert.Equal(t, int64(1000), metrics.HTTPRequests)
	assert.Equal(t, int64(500), metrics.MutationsApplied)
	assert.Equal(t, int64(500), metrics.MutationsIgnored)
}

func TestSafeUint64ToInt64(t *testing.T) {
	assert.Equal(t, int64(42), safeUint64ToInt64(42))
	assert.Equal(t, int64(math.MaxInt64), safeUint64ToInt64(math.MaxUint64))
}
