package domain

import "time"

const (
	// MaxRecentEntries caps the recent-files list
	MaxRecentEntries = 10

	// InlineContentCap is the largest file that gets its content inlined
	// into its recent entry for quick re-open (512 KiB)
	InlineContentCap = 512 * 1024
)

// RecentEntry records a previously opened file. Content is inlined only
// when the file was at or under InlineContentCap; it is an optimization
// for quick re-open, never required for correctness.
type RecentEntry struct {
	Name     string    `yaml:"name"`
	Size     int64     `yaml:"size"`
	OpenedAt time.Time `yaml:"opened_at"`
	Content  string    `yaml:"content,omitempty"`
}

// RecentList is ordered most-recently-touched first, capped, and
// deduplicated by (name, size).
type RecentList []RecentEntry

// Touch moves the entry matching (e.Name, e.Size) to the front, updating
// its timestamp and content, or inserts e at the front if absent. The
// result never exceeds limit entries; a non-positive limit falls back to
// MaxRecentEntries.
func (l RecentList) Touch(e RecentEntry, limit int) RecentList {
	if limit <= 0 {
		limit = MaxRecentEntries
	}
	out := make(RecentList, 0, len(l)+1)
	out = append(out, e)
	for _, existing := range l {
		if existing.Name == e.Name && existing.Size == e.Size {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Find returns the entry matching (name, size), if present
func (l RecentList) Find(name string, size int64) (RecentEntry, bool) {
	for _, e := range l {
		if e.Name == name && e.Size == size {
			return e, true
		}
	}
	return RecentEntry{}, false
}
