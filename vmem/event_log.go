package vmem

import (
	"fmt"
	"time"
)

// LogEntry is one event of the append-only log
type LogEntry struct {
	Seq     uint64    // position in the log, starting at 1
	Tick    uint64    // logical clock at the time of the event
	Time    time.Time // wall clock
	Message string
}

// EventLog is a bounded append-only log. Once full, new entries are dropped
// and counted; existing entries are never evicted.
type EventLog struct {
	entries  []LogEntry
	capacity int
	dropped  uint64
}

// NewEventLog creates a log that holds at most capacity entries
func NewEventLog(capacity int) *EventLog {
	return &EventLog{
		entries:  make([]LogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append adds an entry. It returns ErrCodeLogOverflow when the entry was dropped.
func (l *EventLog) Append(tick uint64, at time.Time, message string) error {
	if len(l.entries) >= l.capacity {
		l.dropped++
		return ErrLogOverflowed("Append", l.capacity)
	}
	l.entries = append(l.entries, LogEntry{
		Seq:     uint64(len(l.entries) + 1),
		Tick:    tick,
		Time:    at,
		Message: message,
	})
	return nil
}

// Appendf formats and appends an entry
func (l *EventLog) Appendf(tick uint64, at time.Time, format string, args ...any) error {
	return l.Append(tick, at, fmt.Sprintf(format, args...))
}

// Len returns the number of stored entries
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries
func (l *EventLog) Capacity() int {
	return l.capacity
}

// Dropped returns how many entries were discarded because the log was full
func (l *EventLog) Dropped() uint64 {
	return l.dropped
}

// All returns a copy of every entry in order
func (l *EventLog) All() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns the last n entries in order. n <= 0 returns everything.
func (l *EventLog) Recent(n int) []LogEntry {
	if n <= 0 || n >= len(l.entries) {
		return l.All()
	}
	out := make([]LogEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Format renders an entry the way archives and reports print it
func (e LogEntry) Format() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}
