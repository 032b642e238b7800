package vmem

import (
	"log/slog"
	"time"
)

// MaxNameLength bounds process names; longer names are truncated
const MaxNameLength = 31

// ProcessState is the lifecycle state of an address space
type ProcessState uint8

const (
	ProcessActive ProcessState = iota
	ProcessSuspended
	ProcessPartiallySwapped
	ProcessTerminated
)

// String returns string representation of ProcessState
func (s ProcessState) String() string {
	switch s {
	case ProcessActive:
		return "ACTIVE"
	case ProcessSuspended:
		return "SUSPENDED"
	case ProcessPartiallySwapped:
		return "PARTIALLY_SWAPPED"
	case ProcessTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Process is the control block of one address space. It exclusively owns
// its page table.
type Process struct {
	PID        PID
	Name       string
	Size       int // requested size in KB
	NumPages   int
	State      ProcessState
	PageFaults uint64
	CreatedAt  time.Time

	pageTable *PageTable
}

// ProcessInfo is a read-only view of a process
type ProcessInfo struct {
	PID           PID
	Name          string
	Size          int
	NumPages      int
	State         ProcessState
	PageFaults    uint64
	ResidentPages int
	SwappedPages  int
	CreatedAt     time.Time
}

func (p *Process) info() ProcessInfo {
	return ProcessInfo{
		PID:           p.PID,
		Name:          p.Name,
		Size:          p.Size,
		NumPages:      p.NumPages,
		State:         p.State,
		PageFaults:    p.PageFaults,
		ResidentPages: p.pageTable.Resident(),
		SwappedPages:  p.pageTable.Swapped(),
		CreatedAt:     p.CreatedAt,
	}
}

// residencyState is Active when every page is resident, else PartiallySwapped
func (p *Process) residencyState() ProcessState {
	if p.pageTable.Resident() == p.NumPages {
		return ProcessActive
	}
	return ProcessPartiallySwapped
}

func (ms *MemorySystem) findProcess(pid PID) *Process {
	idx := int(pid) - 1
	if idx < 0 || idx >= len(ms.processes) {
		return nil
	}
	return ms.processes[idx]
}

// CreateProcess builds an address space of sizeKB, rounded up to whole
// pages. Each page goes to the lowest free RAM frame, or to the lowest free
// swap slot once RAM is full. Creation never evicts resident pages. On
// failure every frame and slot claimed so far is released.
func (ms *MemorySystem) CreateProcess(name string, sizeKB int) (PID, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	pid, err := ms.createProcess(name, sizeKB)
	if err != nil {
		ms.metrics.RecordCreationFailure()
		ms.logger.Warn("process creation failed",
			slog.String("name", name),
			slog.Int("size_kb", sizeKB),
			slog.Any("error", err))
		return 0, err
	}
	ms.verify("CreateProcess")
	return pid, nil
}

func (ms *MemorySystem) createProcess(name string, sizeKB int) (PID, error) {
	const op = "CreateProcess"

	if ms.live >= ms.config.MaxProcesses {
		return 0, ErrNoProcessSlot(op, ms.config.MaxProcesses)
	}
	if sizeKB <= 0 {
		return 0, ErrInvalidSize(op, sizeKB)
	}

	numPages := ms.config.PagesFor(sizeKB)
	free := ms.ram.Free() + ms.swap.Free()
	if numPages > free {
		return 0, ErrInsufficientSpace(op, numPages, free)
	}

	slot := -1
	for i, p := range ms.processes {
		if p == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		return 0, ErrNoProcessSlot(op, ms.config.MaxProcesses)
	}

	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}

	tick := ms.nextTick()
	p := &Process{
		PID:       PID(slot + 1),
		Name:      name,
		Size:      sizeKB,
		NumPages:  numPages,
		State:     ProcessActive,
		CreatedAt: ms.now(),
		pageTable: NewPageTable(numPages),
	}

	inRAM := 0
	for i := 0; i < numPages; i++ {
		entry := p.pageTable.Entry(i)

		if frame, err := ms.allocateDirect(p.PID, i); err == nil {
			entry.Location = InRAM(frame)
			entry.LoadTime = tick
			entry.LastAccess = tick
			inRAM++
			ms.logger.Debug("page placed in RAM",
				slog.Int("pid", int(p.PID)), slog.Int("page", i), slog.Int("frame", int(frame)))
			continue
		}

		swapSlot, ok := ms.swap.FindFree()
		if !ok {
			ms.rollback(p, i)
			return 0, ErrInsufficientSpace(op, numPages, free)
		}
		ms.swap.Claim(swapSlot, Owner{PID: p.PID, Page: i}, tick)
		entry.Location = InSwap(SlotID(swapSlot))
		entry.LoadTime = tick
		ms.logger.Debug("page placed in swap",
			slog.Int("pid", int(p.PID)), slog.Int("page", i), slog.Int("slot", swapSlot))
	}

	if inRAM < numPages {
		p.State = ProcessPartiallySwapped
	}

	ms.processes[slot] = p
	ms.live++
	ms.metrics.RecordProcessCreated()

	ms.event("Process created: PID=%d, Name='%s', Size=%d KB, Pages=%d (RAM:%d, Swap:%d)",
		p.PID, p.Name, sizeKB, numPages, inRAM, numPages-inRAM)
	ms.logger.Info("process created",
		slog.Int("pid", int(p.PID)),
		slog.String("name", p.Name),
		slog.Int("pages", numPages),
		slog.Int("in_ram", inRAM),
		slog.String("state", p.State.String()))

	return p.PID, nil
}

// allocateDirect claims the lowest free RAM frame for (pid, page) without
// evicting anything. The frame is handed to the replacer.
func (ms *MemorySystem) allocateDirect(pid PID, page int) (FrameID, error) {
	idx, ok := ms.ram.FindFree()
	if !ok {
		return 0, ErrNoRAMFrame("allocateDirect")
	}
	ms.ram.Claim(idx, Owner{PID: pid, Page: page}, ms.tick)
	frame := FrameID(idx)
	ms.recordResident(frame)
	return frame, nil
}

// rollback releases the first placed pages of a process under construction
func (ms *MemorySystem) rollback(p *Process, placed int) {
	for j := 0; j < placed; j++ {
		entry := p.pageTable.Entry(j)
		if frame, ok := entry.Location.Frame(); ok {
			ms.ram.Release(int(frame))
			ms.replacer.Remove(frame)
		} else if slot, ok := entry.Location.Slot(); ok {
			ms.swap.Release(int(slot))
		}
		entry.Location = NotPresent()
	}
	ms.logger.Debug("process creation rolled back",
		slog.Int("pid", int(p.PID)), slog.Int("released_pages", placed))
}

// TerminateProcess releases every frame and slot of pid, drops its TLB
// entries and removes it from the directory. It returns false if pid is
// unknown or already terminated.
func (ms *MemorySystem) TerminateProcess(pid PID) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	p := ms.findProcess(pid)
	if p == nil {
		ms.logger.Warn("terminate: process not found", slog.Int("pid", int(pid)))
		return false
	}

	ms.nextTick()
	for i := 0; i < p.NumPages; i++ {
		entry := p.pageTable.Entry(i)
		if frame, ok := entry.Location.Frame(); ok {
			ms.ram.Release(int(frame))
			ms.replacer.Remove(frame)
		} else if slot, ok := entry.Location.Slot(); ok {
			ms.swap.Release(int(slot))
		}
	}

	ms.tlb.InvalidateAll(pid)
	p.State = ProcessTerminated

	ms.event("Process terminated: PID=%d, Name='%s', Page Faults=%d", p.PID, p.Name, p.PageFaults)
	ms.logger.Info("process terminated",
		slog.Int("pid", int(p.PID)),
		slog.Uint64("page_faults", p.PageFaults))

	ms.processes[int(pid)-1] = nil
	p.pageTable = nil
	ms.live--
	ms.metrics.RecordProcessTerminated()

	ms.verify("TerminateProcess")
	return true
}

// SuspendProcess moves an Active or PartiallySwapped process to Suspended.
// Accesses to a suspended process are refused until it is resumed.
func (ms *MemorySystem) SuspendProcess(pid PID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	const op = "SuspendProcess"
	p := ms.findProcess(pid)
	if p == nil {
		return ErrUnknownProcess(op, pid)
	}
	if p.State == ProcessSuspended || p.State == ProcessTerminated {
		return ErrInvalidTransition(op, pid, p.State, ProcessSuspended)
	}

	ms.nextTick()
	p.State = ProcessSuspended
	ms.event("Process %d suspended", pid)
	ms.logger.Info("process suspended", slog.Int("pid", int(pid)))
	return nil
}

// ResumeProcess returns a suspended process to Active or PartiallySwapped
// depending on how many of its pages are resident now.
func (ms *MemorySystem) ResumeProcess(pid PID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	const op = "ResumeProcess"
	p := ms.findProcess(pid)
	if p == nil {
		return ErrUnknownProcess(op, pid)
	}
	if p.State != ProcessSuspended {
		return ErrInvalidTransition(op, pid, p.State, p.residencyState())
	}

	ms.nextTick()
	p.State = p.residencyState()
	ms.event("Process %d resumed (%s)", pid, p.State)
	ms.logger.Info("process resumed", slog.Int("pid", int(pid)), slog.String("state", p.State.String()))
	return nil
}
