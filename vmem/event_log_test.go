package vmem

import (
	"errors"
	"testing"
	"time"
)

func TestEventLogAppend(t *testing.T) {
	log := NewEventLog(3)
	at := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

	if err := log.Appendf(1, at, "Process created: PID=%d", 1); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries := log.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Seq != 1 || entries[0].Tick != 1 {
		t.Errorf("Unexpected seq/tick: %d/%d", entries[0].Seq, entries[0].Tick)
	}

	expected := "[09:30:15] Process created: PID=1"
	if entries[0].Format() != expected {
		t.Errorf("Expected %q, got %q", expected, entries[0].Format())
	}
}

func TestEventLogOverflow(t *testing.T) {
	log := NewEventLog(2)
	now := time.Now()

	log.Append(1, now, "first")
	log.Append(2, now, "second")

	err := log.Append(3, now, "third")
	if !errors.Is(err, ErrLogOverflow) {
		t.Fatalf("Expected log overflow, got %v", err)
	}

	if log.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", log.Len())
	}
	if log.Dropped() != 1 {
		t.Errorf("Expected 1 dropped entry, got %d", log.Dropped())
	}

	// Existing entries are never evicted
	if log.All()[0].Message != "first" {
		t.Error("Oldest entry should be kept")
	}
}

func TestEventLogRecent(t *testing.T) {
	log := NewEventLog(10)
	now := time.Now()

	for i, msg := range []string{"a", "b", "c", "d"} {
		log.Append(uint64(i), now, msg)
	}

	recent := log.Recent(2)
	if len(recent) != 2 || recent[0].Message != "c" || recent[1].Message != "d" {
		t.Errorf("Expected [c d], got %+v", recent)
	}

	if len(log.Recent(0)) != 4 {
		t.Error("Recent(0) should return every entry")
	}
	if len(log.Recent(100)) != 4 {
		t.Error("Recent beyond length should return every entry")
	}
}
