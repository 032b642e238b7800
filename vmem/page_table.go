package vmem

import "fmt"

// PID identifies an address space. PIDs start at 1.
type PID int

// FrameID indexes the RAM pool
type FrameID int

// SlotID indexes the Swap pool
type SlotID int

// LocationKind is the tag of a page location
type LocationKind uint8

const (
	LocationFree LocationKind = iota
	LocationRAM
	LocationSwap
	LocationNotPresent
)

// String returns string representation of LocationKind
func (k LocationKind) String() string {
	switch k {
	case LocationFree:
		return "FREE"
	case LocationRAM:
		return "RAM"
	case LocationSwap:
		return "SWAP"
	case LocationNotPresent:
		return "NOT_PRESENT"
	default:
		return "UNKNOWN"
	}
}

// Location is where a page currently lives. The index is only reachable
// through Frame or Slot, so a RAM location always carries a frame and a
// swap location always carries a slot.
type Location struct {
	kind  LocationKind
	index int
}

// InRAM returns a location pointing at a RAM frame
func InRAM(frame FrameID) Location {
	return Location{kind: LocationRAM, index: int(frame)}
}

// InSwap returns a location pointing at a swap slot
func InSwap(slot SlotID) Location {
	return Location{kind: LocationSwap, index: int(slot)}
}

// NotPresent returns the location of a page that has no backing yet
func NotPresent() Location {
	return Location{kind: LocationNotPresent}
}

// Kind returns the location tag
func (l Location) Kind() LocationKind {
	return l.kind
}

// Frame returns the RAM frame if the page is resident
func (l Location) Frame() (FrameID, bool) {
	if l.kind != LocationRAM {
		return 0, false
	}
	return FrameID(l.index), true
}

// Slot returns the swap slot if the page is swapped
func (l Location) Slot() (SlotID, bool) {
	if l.kind != LocationSwap {
		return 0, false
	}
	return SlotID(l.index), true
}

func (l Location) String() string {
	switch l.kind {
	case LocationRAM:
		return fmt.Sprintf("RAM[%d]", l.index)
	case LocationSwap:
		return fmt.Sprintf("Swap[%d]", l.index)
	default:
		return l.kind.String()
	}
}

// PageEntry is one logical page of one process
type PageEntry struct {
	Number     int
	Location   Location
	Modified   bool   // dirty bit, tracked only
	LastAccess uint64 // logical tick of the last resolved access
	LoadTime   uint64 // logical tick of the last placement
}

// Valid reports whether the page is resident in RAM
func (e PageEntry) Valid() bool {
	return e.Location.kind == LocationRAM
}

// PageTable is the ordered page array of one address space
type PageTable struct {
	entries []PageEntry
}

// NewPageTable creates a table of numPages entries, all NotPresent
func NewPageTable(numPages int) *PageTable {
	entries := make([]PageEntry, numPages)
	for i := range entries {
		entries[i] = PageEntry{Number: i, Location: NotPresent()}
	}
	return &PageTable{entries: entries}
}

// Len returns the number of pages
func (pt *PageTable) Len() int {
	return len(pt.entries)
}

// Entry returns a pointer to the entry for page, or nil if out of range
func (pt *PageTable) Entry(page int) *PageEntry {
	if page < 0 || page >= len(pt.entries) {
		return nil
	}
	return &pt.entries[page]
}

// Resident returns the number of pages InRAM
func (pt *PageTable) Resident() int {
	return pt.count(LocationRAM)
}

// Swapped returns the number of pages InSwap
func (pt *PageTable) Swapped() int {
	return pt.count(LocationSwap)
}

func (pt *PageTable) count(kind LocationKind) int {
	n := 0
	for i := range pt.entries {
		if pt.entries[i].Location.kind == kind {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of all entries
func (pt *PageTable) Snapshot() []PageEntry {
	out := make([]PageEntry, len(pt.entries))
	copy(out, pt.entries)
	return out
}
