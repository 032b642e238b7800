package vmem

// FIFOQueue is a bounded ring buffer of RAM frames in global load order.
// Capacity equals the RAM frame count.
type FIFOQueue struct {
	ring  []FrameID
	front int
	size  int
}

// NewFIFOQueue creates an empty queue
func NewFIFOQueue(capacity int) *FIFOQueue {
	return &FIFOQueue{ring: make([]FrameID, capacity)}
}

// Capacity returns the ring size
func (q *FIFOQueue) Capacity() int {
	return len(q.ring)
}

// Len returns the number of queued frames
func (q *FIFOQueue) Len() int {
	return q.size
}

// Record enqueues frame at the tail. A full queue drops the frame.
func (q *FIFOQueue) Record(frame FrameID) bool {
	if q.size >= len(q.ring) {
		return false
	}
	rear := (q.front + q.size) % len(q.ring)
	q.ring[rear] = frame
	q.size++
	return true
}

// Victim dequeues the oldest frame
func (q *FIFOQueue) Victim() (FrameID, bool) {
	if q.size == 0 {
		return 0, false
	}
	frame := q.ring[q.front]
	q.front = (q.front + 1) % len(q.ring)
	q.size--
	return frame, true
}

// Touch is a no-op: load order ignores accesses
func (q *FIFOQueue) Touch(FrameID) {}

// Remove drops frame from wherever it sits, keeping the order of the rest
func (q *FIFOQueue) Remove(frame FrameID) bool {
	pos := -1
	for i := 0; i < q.size; i++ {
		if q.ring[(q.front+i)%len(q.ring)] == frame {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	for i := pos; i < q.size-1; i++ {
		q.ring[(q.front+i)%len(q.ring)] = q.ring[(q.front+i+1)%len(q.ring)]
	}
	q.size--
	return true
}

// Restore pushes frame back at the head
func (q *FIFOQueue) Restore(frame FrameID) {
	if q.size >= len(q.ring) {
		return
	}
	q.front = (q.front - 1 + len(q.ring)) % len(q.ring)
	q.ring[q.front] = frame
	q.size++
}

// Order returns queued frames from head to tail
func (q *FIFOQueue) Order() []FrameID {
	out := make([]FrameID, 0, q.size)
	for i := 0; i < q.size; i++ {
		out = append(out, q.ring[(q.front+i)%len(q.ring)])
	}
	return out
}
