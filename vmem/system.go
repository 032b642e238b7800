package vmem

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySystem is the single owner of every paging structure: the RAM and
// swap pools, the TLB, the replacement queue, the process directory, the
// event log and the counters. All public methods take one exclusive lock,
// so operations run to completion one at a time.
type MemorySystem struct {
	config    *Config
	ram       *FramePool
	swap      *FramePool
	tlb       *TLB
	replacer  Replacer
	processes []*Process // slot i holds PID i+1
	live      int
	events    *EventLog
	metrics   *Metrics
	logger    *slog.Logger
	sessionID uuid.UUID
	tick      uint64
	now       func() time.Time
	startTime time.Time

	mu sync.Mutex
}

// NewMemorySystem creates a memory system from cfg. The configuration is
// copied; later changes to cfg have no effect.
func NewMemorySystem(cfg *Config) (*MemorySystem, error) {
	return NewMemorySystemWithLogger(cfg, nil)
}

// NewMemorySystemWithLogger creates a memory system that reports through logger
func NewMemorySystemWithLogger(cfg *Config, logger *slog.Logger) (*MemorySystem, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg = cfg.Clone()
	ramFrames := cfg.RAMFrames()

	ms := &MemorySystem{
		config:    cfg,
		ram:       NewFramePool("RAM", ramFrames),
		swap:      NewFramePool("Swap", cfg.SwapFrames()),
		tlb:       NewTLB(cfg.TLBSize),
		replacer:  NewReplacer(cfg.ReplacementPolicy, ramFrames),
		processes: make([]*Process, cfg.MaxProcesses),
		events:    NewEventLog(cfg.MaxLogEntries),
		metrics:   NewMetrics(),
		sessionID: uuid.New(),
		now:       time.Now,
	}
	ms.logger = logger.With("session", ms.sessionID.String())
	ms.startTime = ms.now()

	ms.logger.Info("memory system initialized",
		slog.Int("ram_kb", cfg.RAMSize),
		slog.Int("ram_frames", ramFrames),
		slog.Int("swap_kb", cfg.SwapSize),
		slog.Int("swap_frames", cfg.SwapFrames()),
		slog.Int("page_kb", cfg.PageSize),
		slog.Int("tlb_entries", cfg.TLBSize),
		slog.String("policy", cfg.ReplacementPolicy),
	)
	ms.event("Memory system initialized: RAM %d KB (%d frames), Swap %d KB (%d slots), page %d KB, TLB %d entries, policy %s",
		cfg.RAMSize, ramFrames, cfg.SwapSize, cfg.SwapFrames(), cfg.PageSize, cfg.TLBSize, cfg.ReplacementPolicy)

	return ms, nil
}

// SetClock replaces the wall clock used for event timestamps
func (ms *MemorySystem) SetClock(now func() time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.now = now
}

// SessionID returns the identifier of this simulation run
func (ms *MemorySystem) SessionID() uuid.UUID {
	return ms.sessionID
}

// Config returns a copy of the configuration in use
func (ms *MemorySystem) Config() *Config {
	return ms.config.Clone()
}

// GetMetrics returns the live counters
func (ms *MemorySystem) GetMetrics() *Metrics {
	return ms.metrics
}

// Logger returns the structured logger
func (ms *MemorySystem) Logger() *slog.Logger {
	return ms.logger
}

func (ms *MemorySystem) nextTick() uint64 {
	ms.tick++
	return ms.tick
}

// event appends to the event log. A full log drops the entry; the first
// drop is reported as a warning.
func (ms *MemorySystem) event(format string, args ...any) {
	err := ms.events.Appendf(ms.tick, ms.now(), format, args...)
	if err == nil {
		return
	}
	ms.metrics.RecordDroppedLogEntry()
	if ms.events.Dropped() == 1 {
		ms.logger.Warn("event log full, dropping new entries",
			slog.Int("capacity", ms.events.Capacity()))
	}
}

// recordResident hands a newly occupied RAM frame to the replacer
func (ms *MemorySystem) recordResident(frame FrameID) {
	if ms.replacer.Record(frame) {
		return
	}
	ms.metrics.RecordDroppedEnqueue()
	ms.logger.Warn("replacement queue full, frame not tracked",
		slog.Int("frame", int(frame)),
		slog.Int("queued", ms.replacer.Len()))
}

// verify runs the invariant checker when enabled
func (ms *MemorySystem) verify(op string) {
	if !ms.config.VerifyInvariants {
		return
	}
	if err := ms.checkInvariants(); err != nil {
		ms.logger.Error("invariant violation", slog.String("op", op), slog.Any("error", err))
	}
}
