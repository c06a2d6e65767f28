package monitoring

import (
	"math"
	"runtime"
	"sync"
	"time"
)

// Health thresholds for one local editing session
const (
	maxHealthyMemory     = 256 * 1024 * 1024
	maxHealthyGoroutines = 500
)

// ActivityMetrics is a point-in-time copy of what the bridge has done
type ActivityMetrics struct {
	StartedAt time.Time `json:"startedAt"`
	Uptime    string    `json:"uptime"`

	HTTPRequests         int64 `json:"httpRequests"`
	WebSocketConnections int64 `json:"websocketConnections"`
	UIMessages           int64 `json:"uiMessages"`
	RejectedMessages     int64 `json:"rejectedMessages"`
	MutationsApplied     int64 `json:"mutationsApplied"`
	MutationsIgnored     int64 `json:"mutationsIgnored"`

	EditorRenders       int64 `json:"editorRenders"`
	AverageRenderMillis int64 `json:"averageRenderMs"`

	MemoryBytes    int64  `json:"memoryBytes"`
	HeapBytes      int64  `json:"heapBytes"`
	GoroutineCount int    `json:"goroutines"`
	GCCount        uint32 `json:"gcCycles"`

	Healthy bool `json:"healthy"`
}

// ActivityMonitor counts bridge traffic and editing outcomes. The zero value is not usable.
type ActivityMonitor struct {
	mu      sync.Mutex
	started time.Time
	now     func() time.Time

	httpRequests     int64
	wsConnections    int64
	uiMessages       int64
	rejectedMessages int64
	applied          int64
	ignored          int64
	renders          int64
	avgRender        time.Duration
}

// NewActivityMonitor creates a monitor whose uptime starts now
func NewActivityMonitor() *ActivityMonitor {
	return &ActivityMonitor{started: time.Now(), now: time.Now}
}

// RecordHTTPRequest counts one request to the bridge
func (m *ActivityMonitor) RecordHTTPRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpRequests++
}

// RecordWebSocketConnection counts one editor tab connecting
func (m *ActivityMonitor) RecordWebSocketConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wsConnections++
}

// RecordUIMessage counts one websocket event from the page; rejected ones failed to decode
func (m *ActivityMonitor) RecordUIMessage(rejected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uiMessages++
	if rejected {
		m.rejectedMessages++
	}
}

// RecordMutation counts an editing request and whether the store applied it
func (m *ActivityMonitor) RecordMutation(applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if applied {
		m.applied++
	} else {
		m.ignored++
	}
}

// RecordEditorRender records how long the shell page took to render
func (m *ActivityMonitor) RecordEditorRender(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.renders++
	if m.avgRender == 0 {
		m.avgRender = duration
		return
	}
	// Exponential moving average
	alpha := 0.1
	m.avgRender = time.Duration(float64(m.avgRender)*(1-alpha) + float64(duration)*alpha)
}

// Metrics returns the counters along with current runtime memory figures
func (m *ActivityMonitor) Metrics() ActivityMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	metrics := ActivityMetrics{
		StartedAt:            m.started,
		Uptime:               m.now().Sub(m.started).Round(time.Second).String(),
		HTTPRequests:         m.httpRequests,
		WebSocketConnections: m.wsConnections,
		UIMessages:           m.uiMessages,
		RejectedMessages:     m.rejectedMessages,
		MutationsApplied:     m.applied,
		MutationsIgnored:     m.ignored,
		EditorRenders:        m.renders,
		AverageRenderMillis:  m.avgRender.Milliseconds(),
	}
	m.mu.Unlock()

	metrics.MemoryBytes = safeUint64ToInt64(memStats.Alloc)
	metrics.HeapBytes = safeUint64ToInt64(memStats.HeapAlloc)
	metrics.GoroutineCount = runtime.NumGoroutine()
	metrics.GCCount = memStats.NumGC
	metrics.Healthy = metrics.MemoryBytes < maxHealthyMemory && metrics.GoroutineCount < maxHealthyGoroutines

	return metrics
}

// safeUint64ToInt64 converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}
