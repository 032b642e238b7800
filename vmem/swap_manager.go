package vmem

import (
	"fmt"
	"log/slog"
)

// SwapOut moves the page held by RAM frame to the lowest free swap slot.
// All TLB entries of the owning process are dropped, not only the moved page.
func (ms *MemorySystem) SwapOut(frame FrameID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.nextTick()
	if err := ms.swapOut("SwapOut", frame); err != nil {
		return err
	}
	ms.verify("SwapOut")
	return nil
}

// SwapIn brings a swapped page of pid back into RAM, evicting the
// replacement victim if no frame is free. It returns the frame used.
func (ms *MemorySystem) SwapIn(pid PID, page int) (FrameID, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.nextTick()
	frame, err := ms.swapIn(pid, page)
	if err != nil {
		return 0, err
	}
	ms.verify("SwapIn")
	return frame, nil
}

func (ms *MemorySystem) swapOut(op string, frame FrameID) error {
	if !ms.ram.InRange(int(frame)) {
		return ErrBadFrame(op, frame, ms.ram.Capacity())
	}

	ramFrame := ms.ram.Get(int(frame))
	if !ramFrame.Occupied {
		return ErrNotOccupied(op, frame)
	}

	owner := ramFrame.Owner
	p := ms.findProcess(owner.PID)
	if p == nil {
		return ErrProcessGone(op, frame, owner.PID)
	}

	entry := p.pageTable.Entry(owner.Page)
	if entry == nil || entry.Location != InRAM(frame) {
		return NewMemoryError(ErrCodeInvariantViolation, op,
			fmt.Sprintf("frame %d owner (%d, %d) does not reference it", frame, owner.PID, owner.Page), nil)
	}

	slot, ok := ms.swap.FindFree()
	if !ok {
		ms.event("ERROR: No swap space for Process %d, Page %d", owner.PID, owner.Page)
		return ErrNoSwapSpace(op, owner.PID, owner.Page)
	}

	ms.swap.Claim(slot, owner, ms.tick)
	entry.Location = InSwap(SlotID(slot))
	entry.Modified = false

	ms.ram.Release(int(frame))
	ms.replacer.Remove(frame)
	ms.tlb.InvalidateAll(owner.PID)

	ms.metrics.RecordSwapOut()
	ms.event("SWAP OUT: Process %d, Page %d moved from RAM[%d] to Swap[%d]", owner.PID, owner.Page, frame, slot)
	ms.logger.Info("swap out",
		slog.Int("pid", int(owner.PID)),
		slog.Int("page", owner.Page),
		slog.Int("frame", int(frame)),
		slog.Int("slot", slot))
	return nil
}

func (ms *MemorySystem) swapIn(pid PID, page int) (FrameID, error) {
	const op = "SwapIn"

	p := ms.findProcess(pid)
	if p == nil {
		return 0, ErrUnknownProcess(op, pid)
	}
	entry := p.pageTable.Entry(page)
	if entry == nil {
		return 0, ErrInvalidPage(op, pid, page, p.NumPages)
	}
	slot, ok := entry.Location.Slot()
	if !ok {
		return 0, ErrNotInSwap(op, pid, page, entry.Location)
	}

	idx, ok := ms.ram.FindFree()
	frame := FrameID(idx)
	if !ok {
		victim, found := ms.replacer.Victim()
		if !found {
			ms.event("ERROR: No victim page found for Process %d", pid)
			return 0, ErrNoVictim(op, pid)
		}

		if err := ms.swapOut(op, victim); err != nil {
			// Nothing moved; the victim keeps its place at the head.
			if ms.ram.InRange(int(victim)) && ms.ram.Get(int(victim)).Occupied {
				ms.replacer.Restore(victim)
			}
			return 0, ErrSwapOutFailed(op, victim, err)
		}
		ms.metrics.RecordEviction()
		frame = victim
	}

	owner := Owner{PID: pid, Page: page}
	ms.ram.Claim(int(frame), owner, ms.tick)
	entry.Location = InRAM(frame)
	entry.LoadTime = ms.tick
	ms.swap.Release(int(slot))

	ms.tlb.Update(pid, page, frame, ms.tick)
	ms.recordResident(frame)

	p.PageFaults++
	ms.metrics.RecordPageFault()
	ms.metrics.RecordSwapIn()

	ms.event("SWAP IN: Process %d, Page %d moved from Swap[%d] to RAM[%d]", pid, page, slot, frame)
	ms.logger.Info("swap in",
		slog.Int("pid", int(pid)),
		slog.Int("page", page),
		slog.Int("slot", int(slot)),
		slog.Int("frame", int(frame)))
	return frame, nil
}
