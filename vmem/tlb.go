package vmem

// TLBEntry caches one (pid, page) -> frame translation
type TLBEntry struct {
	PID        PID
	Page       int
	Frame      FrameID
	Valid      bool
	LastAccess uint64
}

// TLB is a small fully associative translation cache. Lookups scan every
// slot; the capacity is tiny and the scan models the hardware compare.
type TLB struct {
	entries []TLBEntry
	hits    uint64
	misses  uint64
}

// NewTLB creates a TLB with capacity invalid slots
func NewTLB(capacity int) *TLB {
	return &TLB{entries: make([]TLBEntry, capacity)}
}

// Capacity returns the number of slots
func (t *TLB) Capacity() int {
	return len(t.entries)
}

// Lookup returns the cached frame for (pid, page) and refreshes its age
func (t *TLB) Lookup(pid PID, page int, tick uint64) (FrameID, bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Valid && e.PID == pid && e.Page == page {
			e.LastAccess = tick
			t.hits++
			return e.Frame, true
		}
	}
	t.misses++
	return 0, false
}

// Update inserts the translation into the first invalid slot, or replaces
// the slot with the smallest LastAccess. Ties go to the lowest index.
// It returns the slot index used and the entry it replaced, if any.
func (t *TLB) Update(pid PID, page int, frame FrameID, tick uint64) (int, TLBEntry, bool) {
	if len(t.entries) == 0 {
		return -1, TLBEntry{}, false
	}

	victim := 0
	for i := range t.entries {
		if !t.entries[i].Valid {
			victim = i
			break
		}
		if t.entries[i].LastAccess < t.entries[victim].LastAccess {
			victim = i
		}
	}

	old := t.entries[victim]
	t.entries[victim] = TLBEntry{
		PID:        pid,
		Page:       page,
		Frame:      frame,
		Valid:      true,
		LastAccess: tick,
	}
	return victim, old, old.Valid
}

// InvalidateAll clears every valid entry of pid and returns how many were dropped
func (t *TLB) InvalidateAll(pid PID) int {
	n := 0
	for i := range t.entries {
		if t.entries[i].Valid && t.entries[i].PID == pid {
			t.entries[i].Valid = false
			n++
		}
	}
	return n
}

// Hits returns the lookup hit count
func (t *TLB) Hits() uint64 {
	return t.hits
}

// Misses returns the lookup miss count
func (t *TLB) Misses() uint64 {
	return t.misses
}

// Entries returns a copy of all slots, valid or not
func (t *TLB) Entries() []TLBEntry {
	out := make([]TLBEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
