package vmem

import (
	"container/list"
)

// TwoQReplacer keeps resident frames in two queues:
//   - a1: frames loaded but not accessed since (FIFO, probationary)
//   - a2: frames accessed at least once after loading (LRU, protected)
//
// Victims come from a1 first, so pages that are loaded and never touched
// again leave before pages that are in use.
type TwoQReplacer struct {
	a1    *list.List
	a1Map map[FrameID]*list.Element

	a2    *list.List
	a2Map map[FrameID]*list.Element

	capacity int
}

// NewTwoQReplacer creates a new 2Q replacer
func NewTwoQReplacer(capacity int) *TwoQReplacer {
	return &TwoQReplacer{
		a1:       list.New(),
		a1Map:    make(map[FrameID]*list.Element),
		a2:       list.New(),
		a2Map:    make(map[FrameID]*list.Element),
		capacity: capacity,
	}
}

// Victim evicts the oldest probationary frame, else the least recently used
// protected frame
func (r *TwoQReplacer) Victim() (FrameID, bool) {
	if elem := r.a1.Front(); elem != nil {
		frame := elem.Value.(FrameID)
		r.a1.Remove(elem)
		delete(r.a1Map, frame)
		return frame, true
	}
	if elem := r.a2.Front(); elem != nil {
		frame := elem.Value.(FrameID)
		r.a2.Remove(elem)
		delete(r.a2Map, frame)
		return frame, true
	}
	return 0, false
}

// Record adds a newly loaded frame to the probationary queue
func (r *TwoQReplacer) Record(frame FrameID) bool {
	if r.tracked(frame) {
		return true
	}
	if r.Len() >= r.capacity {
		return false
	}
	r.a1Map[frame] = r.a1.PushBack(frame)
	return true
}

// Touch promotes a probationary frame, or refreshes a protected one
func (r *TwoQReplacer) Touch(frame FrameID) {
	if elem, exists := r.a2Map[frame]; exists {
		r.a2.MoveToBack(elem)
		return
	}
	if elem, exists := r.a1Map[frame]; exists {
		r.a1.Remove(elem)
		delete(r.a1Map, frame)
		r.a2Map[frame] = r.a2.PushBack(frame)
	}
}

// Remove forgets frame from whichever queue holds it
func (r *TwoQReplacer) Remove(frame FrameID) bool {
	if elem, exists := r.a1Map[frame]; exists {
		r.a1.Remove(elem)
		delete(r.a1Map, frame)
		return true
	}
	if elem, exists := r.a2Map[frame]; exists {
		r.a2.Remove(elem)
		delete(r.a2Map, frame)
		return true
	}
	return false
}

// Restore puts frame back as the next victim
func (r *TwoQReplacer) Restore(frame FrameID) {
	if r.tracked(frame) {
		return
	}
	r.a1Map[frame] = r.a1.PushFront(frame)
}

// Len returns the number of tracked frames
func (r *TwoQReplacer) Len() int {
	return r.a1.Len() + r.a2.Len()
}

// Order returns probationary frames oldest first, then protected frames
// least recently used first
func (r *TwoQReplacer) Order() []FrameID {
	out := make([]FrameID, 0, r.Len())
	for e := r.a1.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(FrameID))
	}
	for e := r.a2.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(FrameID))
	}
	return out
}

func (r *TwoQReplacer) tracked(frame FrameID) bool {
	_, inA1 := r.a1Map[frame]
	_, inA2 := r.a2Map[frame]
	return inA1 || inA2
}
