package vmem

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Modelled access costs in nanoseconds
const (
	TLBHitCostNs    = 1
	TLBMissCostNs   = 100
	PageFaultCostNs = 1000
)

// Histogram tracks a cost distribution with percentile support
type Histogram struct {
	samples []float64
	mu      sync.RWMutex
	maxSize int  // Maximum samples to retain
	sorted  bool // Track if samples are sorted
}

// NewHistogram creates a new histogram with a max sample size
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
		sorted:  true,
	}
}

// Record adds a sample
func (h *Histogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If at capacity, remove oldest sample (FIFO)
	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}

	h.samples = append(h.samples, v)
	h.sorted = false
}

// Percentile calculates the given percentile (0-100)
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.samples) == 0 {
		return 0
	}

	if !h.sorted {
		sort.Float64s(h.samples)
		h.sorted = true
	}

	rank := (p / 100.0) * float64(len(h.samples)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return h.samples[lower]
	}

	// Linear interpolation between lower and upper
	weight := rank - float64(lower)
	return h.samples[lower]*(1-weight) + h.samples[upper]*weight
}

// Mean calculates the average sample
func (h *Histogram) Mean() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Count returns the number of samples
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset clears all samples
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.sorted = true
}

// HistogramSnapshot holds current percentile statistics
type HistogramSnapshot struct {
	Count int
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
}

// Snapshot captures current histogram statistics
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{
		Count: h.Count(),
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
	}
}

// Metrics tracks paging counters. Counters are atomic so snapshots can be
// read without taking the memory system lock.
type Metrics struct {
	// Access Metrics
	memoryAccesses atomic.Uint64
	tlbHits        atomic.Uint64
	tlbMisses      atomic.Uint64

	// Paging Metrics
	pageFaults atomic.Uint64
	swaps      atomic.Uint64
	swapIns    atomic.Uint64
	swapOuts   atomic.Uint64
	evictions  atomic.Uint64

	// Process Metrics
	processesCreated    atomic.Uint64
	processesTerminated atomic.Uint64
	creationFailures    atomic.Uint64

	// Degraded conditions
	droppedEnqueues   atomic.Uint64
	droppedLogEntries atomic.Uint64

	accessCost *Histogram // modelled ns per access

	startTime time.Time
	mu        sync.RWMutex
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		startTime:  time.Now(),
		accessCost: NewHistogram(10000),
	}
}

func (m *Metrics) RecordAccess() {
	m.memoryAccesses.Add(1)
}

func (m *Metrics) RecordTLBHit() {
	m.tlbHits.Add(1)
}

func (m *Metrics) RecordTLBMiss() {
	m.tlbMisses.Add(1)
}

func (m *Metrics) RecordPageFault() {
	m.pageFaults.Add(1)
}

// RecordSwapIn counts a swap-in as one swap operation
func (m *Metrics) RecordSwapIn() {
	m.swapIns.Add(1)
	m.swaps.Add(1)
}

// RecordSwapOut counts a swap-out as one swap operation
func (m *Metrics) RecordSwapOut() {
	m.swapOuts.Add(1)
	m.swaps.Add(1)
}

func (m *Metrics) RecordEviction() {
	m.evictions.Add(1)
}

func (m *Metrics) RecordProcessCreated() {
	m.processesCreated.Add(1)
}

func (m *Metrics) RecordProcessTerminated() {
	m.processesTerminated.Add(1)
}

func (m *Metrics) RecordCreationFailure() {
	m.creationFailures.Add(1)
}

func (m *Metrics) RecordDroppedEnqueue() {
	m.droppedEnqueues.Add(1)
}

func (m *Metrics) RecordDroppedLogEntry() {
	m.droppedLogEntries.Add(1)
}

// RecordAccessCost records the modelled cost of one access
func (m *Metrics) RecordAccessCost(ns float64) {
	m.accessCost.Record(ns)
}

// Getters

func (m *Metrics) GetMemoryAccesses() uint64 {
	return m.memoryAccesses.Load()
}

func (m *Metrics) GetTLBHits() uint64 {
	return m.tlbHits.Load()
}

func (m *Metrics) GetTLBMisses() uint64 {
	return m.tlbMisses.Load()
}

func (m *Metrics) GetTLBHitRate() float64 {
	hits := m.tlbHits.Load()
	misses := m.tlbMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

func (m *Metrics) GetPageFaults() uint64 {
	return m.pageFaults.Load()
}

func (m *Metrics) GetSwaps() uint64 {
	return m.swaps.Load()
}

func (m *Metrics) GetSwapIns() uint64 {
	return m.swapIns.Load()
}

func (m *Metrics) GetSwapOuts() uint64 {
	return m.swapOuts.Load()
}

func (m *Metrics) GetEvictions() uint64 {
	return m.evictions.Load()
}

func (m *Metrics) GetProcessesCreated() uint64 {
	return m.processesCreated.Load()
}

func (m *Metrics) GetProcessesTerminated() uint64 {
	return m.processesTerminated.Load()
}

func (m *Metrics) GetCreationFailures() uint64 {
	return m.creationFailures.Load()
}

func (m *Metrics) GetDroppedEnqueues() uint64 {
	return m.droppedEnqueues.Load()
}

func (m *Metrics) GetDroppedLogEntries() uint64 {
	return m.droppedLogEntries.Load()
}

// GetAverageAccessTime returns the modelled mean access time in ns:
// hit rate * 1 + miss rate * 100 + fault rate * 1000, rates over TLB lookups.
func (m *Metrics) GetAverageAccessTime() float64 {
	hits := float64(m.tlbHits.Load())
	misses := float64(m.tlbMisses.Load())
	lookups := hits + misses
	if lookups == 0 {
		return 0
	}
	faults := float64(m.pageFaults.Load())
	return hits/lookups*TLBHitCostNs + misses/lookups*TLBMissCostNs + faults/lookups*PageFaultCostNs
}

// GetAccessCost returns snapshot of the modelled access cost distribution
func (m *Metrics) GetAccessCost() HistogramSnapshot {
	return m.accessCost.Snapshot()
}

func (m *Metrics) GetUptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// LogMetrics logs all metrics using structured logging
func (m *Metrics) LogMetrics(logger *slog.Logger) {
	cost := m.GetAccessCost()

	logger.Info("Memory System Metrics",
		slog.Group("tlb",
			slog.Uint64("hits", m.GetTLBHits()),
			slog.Uint64("misses", m.GetTLBMisses()),
			slog.Float64("hit_rate", m.GetTLBHitRate()),
		),
		slog.Group("paging",
			slog.Uint64("accesses", m.GetMemoryAccesses()),
			slog.Uint64("page_faults", m.GetPageFaults()),
			slog.Uint64("swaps", m.GetSwaps()),
			slog.Uint64("swap_ins", m.GetSwapIns()),
			slog.Uint64("swap_outs", m.GetSwapOuts()),
			slog.Uint64("evictions", m.GetEvictions()),
			slog.Float64("avg_access_ns", m.GetAverageAccessTime()),
		),
		slog.Group("processes",
			slog.Uint64("created", m.GetProcessesCreated()),
			slog.Uint64("terminated", m.GetProcessesTerminated()),
			slog.Uint64("creation_failures", m.GetCreationFailures()),
		),
		slog.Group("degraded",
			slog.Uint64("dropped_enqueues", m.GetDroppedEnqueues()),
			slog.Uint64("dropped_log_entries", m.GetDroppedLogEntries()),
		),
		slog.Group("access_cost_ns",
			slog.Int("count", cost.Count),
			slog.Float64("mean", cost.Mean),
			slog.Float64("p50", cost.P50),
			slog.Float64("p95", cost.P95),
			slog.Float64("p99", cost.P99),
		),
		slog.Duration("uptime", m.GetUptime()),
	)
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	m.memoryAccesses.Store(0)
	m.tlbHits.Store(0)
	m.tlbMisses.Store(0)
	m.pageFaults.Store(0)
	m.swaps.Store(0)
	m.swapIns.Store(0)
	m.swapOuts.Store(0)
	m.evictions.Store(0)
	m.processesCreated.Store(0)
	m.processesTerminated.Store(0)
	m.creationFailures.Store(0)
	m.droppedEnqueues.Store(0)
	m.droppedLogEntries.Store(0)
	m.accessCost.Reset()

	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()
}
