package vmem

// Owner identifies the (process, logical page) pair held by a frame
type Owner struct {
	PID  PID
	Page int
}

// Frame is one element of the RAM or Swap pool
type Frame struct {
	Owner    Owner
	Occupied bool
	LoadTime uint64
}

// FramePool is a fixed-capacity array of frames. RAM frames and swap slots
// share the representation; the pool name is only used in messages.
type FramePool struct {
	name     string
	frames   []Frame
	occupied int
}

// NewFramePool creates a pool with count free frames
func NewFramePool(name string, count int) *FramePool {
	return &FramePool{
		name:   name,
		frames: make([]Frame, count),
	}
}

// Name returns the pool name ("RAM" or "Swap")
func (fp *FramePool) Name() string {
	return fp.name
}

// Capacity returns the number of frames
func (fp *FramePool) Capacity() int {
	return len(fp.frames)
}

// Occupied returns the number of occupied frames
func (fp *FramePool) Occupied() int {
	return fp.occupied
}

// Free returns the number of free frames
func (fp *FramePool) Free() int {
	return len(fp.frames) - fp.occupied
}

// InRange reports whether idx addresses a frame of this pool
func (fp *FramePool) InRange(idx int) bool {
	return idx >= 0 && idx < len(fp.frames)
}

// FindFree returns the lowest-indexed free frame
func (fp *FramePool) FindFree() (int, bool) {
	if fp.occupied == len(fp.frames) {
		return 0, false
	}
	for i := range fp.frames {
		if !fp.frames[i].Occupied {
			return i, true
		}
	}
	return 0, false
}

// Get returns a copy of frame idx
func (fp *FramePool) Get(idx int) Frame {
	return fp.frames[idx]
}

// Claim assigns frame idx to owner. The frame must be free.
func (fp *FramePool) Claim(idx int, owner Owner, tick uint64) {
	f := &fp.frames[idx]
	if !f.Occupied {
		fp.occupied++
	}
	f.Owner = owner
	f.Occupied = true
	f.LoadTime = tick
}

// Release frees frame idx
func (fp *FramePool) Release(idx int) {
	f := &fp.frames[idx]
	if f.Occupied {
		fp.occupied--
	}
	*f = Frame{}
}

// Snapshot returns a copy of all frames
func (fp *FramePool) Snapshot() []Frame {
	out := make([]Frame, len(fp.frames))
	copy(out, fp.frames)
	return out
}
