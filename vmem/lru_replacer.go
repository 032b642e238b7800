package vmem

import (
	"container/list"
)

// LRUReplacer implements LRU (Least Recently Used) replacement policy.
// Resident frames move to the back on every resolved access.
type LRUReplacer struct {
	capacity int
	lruList  *list.List
	lruMap   map[FrameID]*list.Element
}

// NewLRUReplacer creates a new LRU replacer
func NewLRUReplacer(capacity int) *LRUReplacer {
	return &LRUReplacer{
		capacity: capacity,
		lruList:  list.New(),
		lruMap:   make(map[FrameID]*list.Element),
	}
}

// Victim selects the least recently used frame
func (lru *LRUReplacer) Victim() (FrameID, bool) {
	oldest := lru.lruList.Front()
	if oldest == nil {
		return 0, false
	}

	frame := oldest.Value.(FrameID)
	lru.lruList.Remove(oldest)
	delete(lru.lruMap, frame)

	return frame, true
}

// Record adds a newly resident frame as most recently used
func (lru *LRUReplacer) Record(frame FrameID) bool {
	if elem, exists := lru.lruMap[frame]; exists {
		lru.lruList.MoveToBack(elem)
		return true
	}
	if lru.lruList.Len() >= lru.capacity {
		return false
	}
	lru.lruMap[frame] = lru.lruList.PushBack(frame)
	return true
}

// Touch moves frame to the back of the list
func (lru *LRUReplacer) Touch(frame FrameID) {
	if elem, exists := lru.lruMap[frame]; exists {
		lru.lruList.MoveToBack(elem)
	}
}

// Remove forgets frame
func (lru *LRUReplacer) Remove(frame FrameID) bool {
	elem, exists := lru.lruMap[frame]
	if !exists {
		return false
	}
	lru.lruList.Remove(elem)
	delete(lru.lruMap, frame)
	return true
}

// Restore puts frame back as least recently used
func (lru *LRUReplacer) Restore(frame FrameID) {
	if _, exists := lru.lruMap[frame]; exists {
		return
	}
	lru.lruMap[frame] = lru.lruList.PushFront(frame)
}

// Len returns the number of tracked frames
func (lru *LRUReplacer) Len() int {
	return lru.lruList.Len()
}

// Order returns frames from least to most recently used
func (lru *LRUReplacer) Order() []FrameID {
	out := make([]FrameID, 0, lru.lruList.Len())
	for e := lru.lruList.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(FrameID))
	}
	return out
}
