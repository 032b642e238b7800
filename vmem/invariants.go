package vmem

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the cross-structure invariants:
//   - every occupied frame or slot is referenced by exactly the page it names,
//     and every page location points back at an occupied frame or slot
//   - each live process has num_pages pages, all InRAM or InSwap
//   - every valid TLB entry maps a page that is resident in that frame
//   - the replacer tracks exactly the occupied RAM frames
func (ms *MemorySystem) CheckInvariants() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.checkInvariants()
}

func (ms *MemorySystem) checkInvariants() error {
	var errs []error

	checkPool := func(pool *FramePool, kind LocationKind) {
		for i, f := range pool.Snapshot() {
			if !f.Occupied {
				continue
			}
			p := ms.findProcess(f.Owner.PID)
			if p == nil {
				errs = append(errs, fmt.Errorf("%s[%d] owned by missing process %d", pool.Name(), i, f.Owner.PID))
				continue
			}
			e := p.pageTable.Entry(f.Owner.Page)
			if e == nil || e.Location.Kind() != kind || e.Location.index != i {
				errs = append(errs, fmt.Errorf("%s[%d] owner (%d, %d) does not reference it",
					pool.Name(), i, f.Owner.PID, f.Owner.Page))
			}
		}
	}
	checkPool(ms.ram, LocationRAM)
	checkPool(ms.swap, LocationSwap)

	live := 0
	for _, p := range ms.processes {
		if p == nil {
			continue
		}
		live++
		if p.pageTable.Len() != p.NumPages {
			errs = append(errs, fmt.Errorf("process %d has %d entries, want %d", p.PID, p.pageTable.Len(), p.NumPages))
		}
		for _, e := range p.pageTable.Snapshot() {
			owner := Owner{PID: p.PID, Page: e.Number}
			switch e.Location.Kind() {
			case LocationRAM:
				frame, _ := e.Location.Frame()
				if !ms.ram.InRange(int(frame)) || !ms.ram.Get(int(frame)).Occupied || ms.ram.Get(int(frame)).Owner != owner {
					errs = append(errs, fmt.Errorf("process %d page %d claims RAM[%d] it does not own", p.PID, e.Number, frame))
				}
			case LocationSwap:
				slot, _ := e.Location.Slot()
				if !ms.swap.InRange(int(slot)) || !ms.swap.Get(int(slot)).Occupied || ms.swap.Get(int(slot)).Owner != owner {
					errs = append(errs, fmt.Errorf("process %d page %d claims Swap[%d] it does not own", p.PID, e.Number, slot))
				}
			default:
				errs = append(errs, fmt.Errorf("process %d page %d is %s", p.PID, e.Number, e.Location.Kind()))
			}
		}
	}
	if live != ms.live {
		errs = append(errs, fmt.Errorf("directory holds %d processes, counter says %d", live, ms.live))
	}

	for i, t := range ms.tlb.Entries() {
		if !t.Valid {
			continue
		}
		p := ms.findProcess(t.PID)
		if p == nil {
			errs = append(errs, fmt.Errorf("TLB[%d] references missing process %d", i, t.PID))
			continue
		}
		e := p.pageTable.Entry(t.Page)
		if e == nil || e.Location != InRAM(t.Frame) {
			errs = append(errs, fmt.Errorf("TLB[%d] maps (%d, %d) to frame %d but page is not resident there",
				i, t.PID, t.Page, t.Frame))
		}
	}

	if ms.replacer.Len() != ms.ram.Occupied() {
		errs = append(errs, fmt.Errorf("replacer tracks %d frames, %d RAM frames occupied",
			ms.replacer.Len(), ms.ram.Occupied()))
	}
	seen := make(map[FrameID]bool, ms.replacer.Len())
	for _, f := range ms.replacer.Order() {
		if seen[f] {
			errs = append(errs, fmt.Errorf("replacer holds frame %d twice", f))
		}
		seen[f] = true
		if !ms.ram.InRange(int(f)) || !ms.ram.Get(int(f)).Occupied {
			errs = append(errs, fmt.Errorf("replacer holds free frame %d", f))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return NewMemoryError(ErrCodeInvariantViolation, "CheckInvariants",
		fmt.Sprintf("%d violation(s)", len(errs)), errors.Join(errs...))
}
