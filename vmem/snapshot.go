package vmem

import (
	"time"
)

// Stats is a point-in-time summary of the memory system
type Stats struct {
	MemoryAccesses    uint64
	TLBHits           uint64
	TLBMisses         uint64
	TLBHitRate        float64
	PageFaults        uint64
	Swaps             uint64
	SwapIns           uint64
	SwapOuts          uint64
	Evictions         uint64
	DroppedEnqueues   uint64
	DroppedLogEntries uint64

	RAMFrames        int
	RAMUsed          int
	RAMUtilization   float64 // percent
	SwapSlots        int
	SwapUsed         int
	SwapUtilization  float64 // percent
	InternalFragKB   int     // allocated page space not covered by requested sizes
	AvgAccessTimeNs  float64
	LiveProcesses    int
	ProcessesCreated uint64
	Terminated       uint64
	Uptime           time.Duration
}

// MemoryMap is a snapshot of every RAM frame and swap slot
type MemoryMap struct {
	RAM  []Frame
	Swap []Frame
}

func utilization(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) * 100 / float64(total)
}

// Stats returns the counters together with derived figures
func (ms *MemorySystem) Stats() Stats {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	frag := 0
	for _, p := range ms.processes {
		if p == nil {
			continue
		}
		frag += p.NumPages*ms.config.PageSize - p.Size
	}

	m := ms.metrics
	return Stats{
		MemoryAccesses:    m.GetMemoryAccesses(),
		TLBHits:           m.GetTLBHits(),
		TLBMisses:         m.GetTLBMisses(),
		TLBHitRate:        m.GetTLBHitRate(),
		PageFaults:        m.GetPageFaults(),
		Swaps:             m.GetSwaps(),
		SwapIns:           m.GetSwapIns(),
		SwapOuts:          m.GetSwapOuts(),
		Evictions:         m.GetEvictions(),
		DroppedEnqueues:   m.GetDroppedEnqueues(),
		DroppedLogEntries: m.GetDroppedLogEntries(),
		RAMFrames:         ms.ram.Capacity(),
		RAMUsed:           ms.ram.Occupied(),
		RAMUtilization:    utilization(ms.ram.Occupied(), ms.ram.Capacity()),
		SwapSlots:         ms.swap.Capacity(),
		SwapUsed:          ms.swap.Occupied(),
		SwapUtilization:   utilization(ms.swap.Occupied(), ms.swap.Capacity()),
		InternalFragKB:    frag,
		AvgAccessTimeNs:   m.GetAverageAccessTime(),
		LiveProcesses:     ms.live,
		ProcessesCreated:  m.GetProcessesCreated(),
		Terminated:        m.GetProcessesTerminated(),
		Uptime:            ms.now().Sub(ms.startTime),
	}
}

// Processes lists live processes in pid order
func (ms *MemorySystem) Processes() []ProcessInfo {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]ProcessInfo, 0, ms.live)
	for _, p := range ms.processes {
		if p != nil {
			out = append(out, p.info())
		}
	}
	return out
}

// Process returns the view of one live process
func (ms *MemorySystem) Process(pid PID) (ProcessInfo, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	p := ms.findProcess(pid)
	if p == nil {
		return ProcessInfo{}, ErrUnknownProcess("Process", pid)
	}
	return p.info(), nil
}

// PageTable returns a copy of the page table of pid
func (ms *MemorySystem) PageTable(pid PID) ([]PageEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	p := ms.findProcess(pid)
	if p == nil {
		return nil, ErrUnknownProcess("PageTable", pid)
	}
	return p.pageTable.Snapshot(), nil
}

// TLBEntries returns every TLB slot, valid or not
func (ms *MemorySystem) TLBEntries() []TLBEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.tlb.Entries()
}

// MemoryMap returns the frame-by-frame occupancy of both pools
func (ms *MemorySystem) MemoryMap() MemoryMap {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return MemoryMap{
		RAM:  ms.ram.Snapshot(),
		Swap: ms.swap.Snapshot(),
	}
}

// EvictionOrder returns the resident frames, next victim first
func (ms *MemorySystem) EvictionOrder() []FrameID {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.replacer.Order()
}

// Logs returns the last n event log entries; n <= 0 returns all of them
func (ms *MemorySystem) Logs(n int) []LogEntry {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.events.Recent(n)
}

// AllLogs returns the whole event log in order
func (ms *MemorySystem) AllLogs() []LogEntry {
	return ms.Logs(0)
}
