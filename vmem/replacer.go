package vmem

// Replacer tracks resident RAM frames and picks eviction victims.
// Every frame that becomes resident is recorded exactly once and every frame
// that leaves RAM is removed, so Len always equals the occupied RAM count.
type Replacer interface {
	// Victim removes and returns the next frame to evict
	// Returns false if nothing is tracked
	Victim() (FrameID, bool)

	// Record adds a newly resident frame. Returns false if the replacer is
	// full and the frame was dropped.
	Record(frame FrameID) bool

	// Touch notes an access to a resident frame
	Touch(frame FrameID)

	// Remove forgets a frame that left RAM. Returns false if it was not tracked.
	Remove(frame FrameID) bool

	// Restore puts a victim back at the head after a failed eviction
	Restore(frame FrameID)

	// Len returns the number of tracked frames
	Len() int

	// Order returns tracked frames from next victim to last
	Order() []FrameID
}

// Replacement policy names
const (
	PolicyFIFO = "fifo"
	PolicyLRU  = "lru"
	Policy2Q   = "2q"
)

// NewReplacer creates a replacer based on the specified policy
func NewReplacer(policy string, capacity int) Replacer {
	switch policy {
	case PolicyLRU:
		return NewLRUReplacer(capacity)
	case Policy2Q:
		return NewTwoQReplacer(capacity)
	default:
		return NewFIFOQueue(capacity)
	}
}
