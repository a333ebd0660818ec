package progress

import (
	"fmt"
	"sync"
	"testing"

	"github.com/examops/checkbot/internal/checklist/domain"
)

func TestTrackerGetSetDelete(t *testing.T) {
	tracker := NewTracker()

	if _, ok := tracker.Get("session-1"); ok {
		t.Fatal("expected no entry for untracked session")
	}

	tracker.Set("session-1", Progress{Day: domain.Day1, NextIndex: 3})
	entry, ok := tracker.Get("session-1")
	if !ok {
		t.Fatal("expected entry after set")
	}
	if entry.Day != domain.Day1 || entry.NextIndex != 3 {
		t.Fatalf("unexpected entry %+v", entry)
	}

	tracker.Set("session-1", Progress{Day: domain.Day1, NextIndex: 4})
	entry, _ = tracker.Get("session-1")
	if entry.NextIndex != 4 {
		t.Fatalf("expected overwrite to 4, got %d", entry.NextIndex)
	}

	tracker.Delete("session-1")
	if _, ok := tracker.Get("session-1"); ok {
		t.Fatal("expected entry removed after delete")
	}
	if tracker.Len() != 0 {
		t.Fatalf("expected empty tracker, got %d entries", tracker.Len())
	}
}

func TestTrackerIndependentSessions(t *testing.T) {
	tracker := NewTracker()
	tracker.Set("session-1", Progress{Day: domain.Day1, NextIndex: 1})
	tracker.Set("session-2", Progress{Day: domain.Day2, NextIndex: 7})

	tracker.Delete("session-1")

	entry, ok := tracker.Get("session-2")
	if !ok || entry.Day != domain.Day2 || entry.NextIndex != 7 {
		t.Fatalf("expected session-2 untouched, got %+v ok=%v", entry, ok)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			session := fmt.Sprintf("session-%d", n)
			for j := 0; j < 100; j++ {
				tracker.Set(session, Progress{Day: domain.Day1, NextIndex: j})
				tracker.Get(session)
			}
		}(i)
	}
	wg.Wait()

	if tracker.Len() != 16 {
		t.Fatalf("expected 16 tracked sessions, got %d", tracker.Len())
	}
}
