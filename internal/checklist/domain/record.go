package domain

import (
	"errors"
	"time"
)

// Day identifies one of the two exam-application days.
type Day int

const (
	// DayUnspecified represents an invalid day value.
	DayUnspecified Day = 0
	// Day1 is the first application day.
	Day1 Day = 1
	// Day2 is the second application day.
	Day2 Day = 2
)

// ErrInvalidDay indicates a day selector outside the two-day event.
var ErrInvalidDay = errors.New("day must be 1 or 2")

// ParseDay validates a raw day selector.
func ParseDay(value int) (Day, error) {
	switch value {
	case 1:
		return Day1, nil
	case 2:
		return Day2, nil
	default:
		return DayUnspecified, ErrInvalidDay
	}
}

// Presence is the tri-state confirmation status of one checklist item.
type Presence int

const (
	// PresenceUnknown means the item was never initialized.
	PresenceUnknown Presence = iota
	// PresenceMissing means the item is initialized but not yet confirmed.
	PresenceMissing
	// PresenceConfirmed means the item was confirmed present.
	PresenceConfirmed
)

// Status describes the lifecycle state of a checklist record.
type Status string

const (
	// StatusStarted indicates a checklist with no confirmed items yet.
	StatusStarted Status = "started"
	// StatusInProgress indicates a checklist with at least one confirmed item.
	StatusInProgress Status = "in_progress"
	// StatusCompleted indicates every item was confirmed.
	StatusCompleted Status = "completed"
)

// ItemState holds the confirmation state of one checklist item.
type ItemState struct {
	Key      string
	Presence Presence
	PhotoRef string
	Note     string
}

// Record is the durable per-session, per-day checklist state. Items are
// stored in template order.
type Record struct {
	SessionID   string
	Day         Day
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
	Items       []ItemState
}

// Item returns the state for one item key.
func (r Record) Item(key string) (ItemState, bool) {
	for _, item := range r.Items {
		if item.Key == key {
			return item, true
		}
	}
	return ItemState{}, false
}

// ConfirmedPrefix returns the length of the contiguous run of confirmed
// items from the start of the record. It is the reconstruction rule for the
// in-memory next-index after a process restart.
func (r Record) ConfirmedPrefix() int {
	count := 0
	for _, item := range r.Items {
		if item.Presence != PresenceConfirmed {
			break
		}
		count++
	}
	return count
}

// Missing returns the keys of all items not yet confirmed, in template order.
func (r Record) Missing() []string {
	missing := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Presence != PresenceConfirmed {
			missing = append(missing, item.Key)
		}
	}
	return missing
}
