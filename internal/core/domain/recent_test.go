package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestRecentListTouch(t *testing.T) {
	t.Run("inserts new entry at front", func(t *testing.T) {
		var l RecentList
		l = l.Touch(RecentEntry{Name: "a.json", Size: 100}, 0)
		l = l.Touch(RecentEntry{Name: "b.svg", Size: 200}, 0)

		if len(l) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(l))
		}
		if l[0].Name != "b.svg" {
			t.Errorf("Expected most recent entry first, got %q", l[0].Name)
		}
	})

	t.Run("deduplicates by name and size", func(t *testing.T) {
		var l RecentList
		l = l.Touch(RecentEntry{Name: "a.json", Size: 100}, 0)
		l = l.Touch(RecentEntry{Name: "b.svg", Size: 200}, 0)
		l = l.Touch(RecentEntry{Name: "a.json", Size: 100, OpenedAt: time.Now()}, 0)

		if len(l) != 2 {
			t.Fatalf("Expected reopen to collapse to 2 entries, got %d", len(l))
		}
		if l[0].Name != "a.json" {
			t.Errorf("Expected touched entry moved to front, got %q", l[0].Name)
		}
		if l[0].OpenedAt.IsZero() {
			t.Error("Expected touch to update the timestamp")
		}
	})

	t.Run("same name different size are distinct entries", func(t *testing.T) {
		var l RecentList
		l = l.Touch(RecentEntry{Name: "a.json", Size: 100}, 0)
		l = l.Touch(RecentEntry{Name: "a.json", Size: 101}, 0)

		if len(l) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(l))
		}
	})

	t.Run("never exceeds the cap", func(t *testing.T) {
		var l RecentList
		for i := 0; i < MaxRecentEntries+5; i++ {
			l = l.Touch(RecentEntry{Name: fmt.Sprintf("file-%d.json", i), Size: int64(i)}, 0)
		}

		if len(l) != MaxRecentEntries {
			t.Fatalf("Expected list capped at %d, got %d", MaxRecentEntries, len(l))
		}
		// Newest must survive the cap
		if l[0].Name != fmt.Sprintf("file-%d.json", MaxRecentEntries+4) {
			t.Errorf("Expected newest entry at front, got %q", l[0].Name)
		}
	})

	t.Run("honors a custom limit", func(t *testing.T) {
		var l RecentList
		for i := 0; i < 6; i++ {
			l = l.Touch(RecentEntry{Name: fmt.Sprintf("file-%d.json", i), Size: int64(i)}, 3)
		}

		if len(l) != 3 {
			t.Fatalf("Expected list capped at 3, got %d", len(l))
		}
		if l[0].Name != "file-5.json" {
			t.Errorf("Expected newest entry at front, got %q", l[0].Name)
		}
	})
}

func TestRecentListFind(t *testing.T) {
	var l RecentList
	l = l.Touch(RecentEntry{Name: "a.json", Size: 100, Content: "{}"}, 0)

	e, ok := l.Find("a.json", 100)
	if !ok {
		t.Fatal("Expected to find entry")
	}
	if e.Content != "{}" {
		t.Errorf("Expected inlined content preserved, got %q", e.Content)
	}

	if _, ok := l.Find("a.json", 999); ok {
		t.Error("Expected no match for different size")
	}
}
