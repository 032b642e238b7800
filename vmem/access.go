package vmem

import (
	"log/slog"
)

// AccessKind tells how an access was resolved
type AccessKind uint8

const (
	AccessTLBHit AccessKind = iota
	AccessPageTableHit
	AccessPageFaultResolved
)

// String returns string representation of AccessKind
func (k AccessKind) String() string {
	switch k {
	case AccessTLBHit:
		return "TLB_HIT"
	case AccessPageTableHit:
		return "PAGE_TABLE_HIT"
	case AccessPageFaultResolved:
		return "PAGE_FAULT_RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// AccessOutcome is the result of a successful access
type AccessOutcome struct {
	Kind  AccessKind
	Frame FrameID
}

// CostNs returns the modelled cost of the access
func (o AccessOutcome) CostNs() float64 {
	switch o.Kind {
	case AccessTLBHit:
		return TLBHitCostNs
	case AccessPageTableHit:
		return TLBMissCostNs
	default:
		return PageFaultCostNs
	}
}

// SimulateAccess performs a read of (pid, page). The TLB is consulted
// first; on a miss the page table resolves resident pages and a swapped
// page is faulted in. A failed swap-in fails the access without retry.
func (ms *MemorySystem) SimulateAccess(pid PID, page int) (AccessOutcome, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out, err := ms.access("SimulateAccess", pid, page, false)
	if err != nil {
		return AccessOutcome{}, err
	}
	ms.verify("SimulateAccess")
	return out, nil
}

// SimulateWrite resolves (pid, page) like SimulateAccess and then marks
// the page modified.
func (ms *MemorySystem) SimulateWrite(pid PID, page int) (AccessOutcome, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out, err := ms.access("SimulateWrite", pid, page, true)
	if err != nil {
		return AccessOutcome{}, err
	}
	ms.verify("SimulateWrite")
	return out, nil
}

func (ms *MemorySystem) access(op string, pid PID, page int, write bool) (AccessOutcome, error) {
	p := ms.findProcess(pid)
	if p == nil {
		return AccessOutcome{}, ErrUnknownProcess(op, pid)
	}
	if p.State == ProcessSuspended {
		return AccessOutcome{}, ErrProcessSuspended(op, pid)
	}
	entry := p.pageTable.Entry(page)
	if entry == nil {
		return AccessOutcome{}, ErrInvalidPage(op, pid, page, p.NumPages)
	}

	tick := ms.nextTick()
	ms.metrics.RecordAccess()

	var out AccessOutcome
	if frame, ok := ms.tlb.Lookup(pid, page, tick); ok {
		ms.metrics.RecordTLBHit()
		ms.replacer.Touch(frame)
		out = AccessOutcome{Kind: AccessTLBHit, Frame: frame}
		ms.event("TLB HIT: Process %d, Page %d -> Frame %d", pid, page, frame)
	} else {
		ms.metrics.RecordTLBMiss()
		ms.event("TLB MISS: Process %d, Page %d", pid, page)

		switch entry.Location.Kind() {
		case LocationRAM:
			frame, _ := entry.Location.Frame()
			slot, old, replaced := ms.tlb.Update(pid, page, frame, tick)
			if replaced {
				ms.logger.Debug("tlb entry replaced",
					slog.Int("slot", slot),
					slog.Int("old_pid", int(old.PID)),
					slog.Int("old_page", old.Page))
			}
			ms.replacer.Touch(frame)
			out = AccessOutcome{Kind: AccessPageTableHit, Frame: frame}
			ms.event("PAGE TABLE HIT: Process %d, Page %d in RAM[%d]", pid, page, frame)

		case LocationSwap:
			ms.event("PAGE FAULT: Process %d, Page %d", pid, page)
			frame, err := ms.swapIn(pid, page)
			if err != nil {
				ms.logger.Warn("page fault not resolved",
					slog.Int("pid", int(pid)),
					slog.Int("page", page),
					slog.Any("error", err))
				return AccessOutcome{}, err
			}
			out = AccessOutcome{Kind: AccessPageFaultResolved, Frame: frame}

		default:
			return AccessOutcome{}, ErrPageNotPresent(op, pid, page)
		}
	}

	entry.LastAccess = tick
	if write {
		entry.Modified = true
	}
	ms.metrics.RecordAccessCost(out.CostNs())
	ms.logger.Debug("access resolved",
		slog.Int("pid", int(pid)),
		slog.Int("page", page),
		slog.String("kind", out.Kind.String()),
		slog.Int("frame", int(out.Frame)),
		slog.Bool("write", write))
	return out, nil
}
