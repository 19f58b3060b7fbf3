package scheduler

import (
	"container/heap"
	"fmt"
	"time"
)

// Store is the in-memory schedule of one session. Items keep the order in
// which they were tracked; armed items are additionally kept in a min-heap
// by scheduled time so Tick can drain them in order.
type Store struct {
	items map[string]*ScheduledItem
	order []string
	armed scheduleHeap
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{items: make(map[string]*ScheduledItem)}
	heap.Init(&s.armed)
	return s
}

// Track adds item to the store. Tracking an id again refreshes its name,
// rarity and protection but leaves its schedule and commit state alone.
// A committed item never keeps a scheduled time.
func (s *Store) Track(item ScheduledItem) {
	if cur, ok := s.items[item.ID]; ok {
		cur.Name = item.Name
		cur.RarityPercent = item.RarityPercent
		cur.Protected = item.Protected
		if cur.Protected && !cur.ScheduledAt.IsZero() {
			heapRemoveByID(&s.armed, cur.ID)
			cur.ScheduledAt = time.Time{}
		}
		return
	}
	it := item
	if it.Committed || it.Protected {
		it.ScheduledAt = time.Time{}
	}
	s.items[it.ID] = &it
	s.order = append(s.order, it.ID)
	if !it.ScheduledAt.IsZero() {
		heapPush(&s.armed, &it)
	}
}

// Len returns the number of tracked items.
func (s *Store) Len() int { return len(s.items) }

// ArmedCount returns the number of armed items.
func (s *Store) ArmedCount() int { return s.armed.Len() }

// Get returns a copy of the item with id.
func (s *Store) Get(id string) (ScheduledItem, bool) {
	it, ok := s.items[id]
	if !ok {
		return ScheduledItem{}, false
	}
	return *it, true
}

// Items returns copies of all items in tracking order.
func (s *Store) Items() []ScheduledItem {
	out := make([]ScheduledItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// Eligible returns copies of the items that may be armed (neither committed
// nor protected), in tracking order.
func (s *Store) Eligible() []ScheduledItem {
	var out []ScheduledItem
	for _, id := range s.order {
		it := s.items[id]
		if !it.Committed && !it.Protected {
			out = append(out, *it)
		}
	}
	return out
}

// NextDue returns the earliest scheduled time among armed items.
func (s *Store) NextDue() (time.Time, bool) {
	if s.armed.Len() == 0 {
		return time.Time{}, false
	}
	return s.armed[0].ScheduledAt, true
}

func (s *Store) checkArmable(id string, at time.Time) (*ScheduledItem, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if it.Committed {
		return nil, fmt.Errorf("%w: %s", ErrItemCommitted, id)
	}
	if it.Protected {
		return nil, fmt.Errorf("%w: %s", ErrItemProtected, id)
	}
	if at.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTime, id)
	}
	return it, nil
}

// Arm sets (or moves) the scheduled time of id. No store call happens until
// the time is due.
func (s *Store) Arm(id string, at time.Time) error {
	it, err := s.checkArmable(id, at)
	if err != nil {
		return err
	}
	s.arm(it, at)
	return nil
}

func (s *Store) arm(it *ScheduledItem, at time.Time) {
	if !it.ScheduledAt.IsZero() {
		heapRemoveByID(&s.armed, it.ID)
	}
	it.ScheduledAt = at
	heapPush(&s.armed, it)
}

// ArmAll validates every entry of times before arming any of them, so a
// rejected id leaves the store untouched.
func (s *Store) ArmAll(times map[string]time.Time) error {
	targets := make(map[*ScheduledItem]time.Time, len(times))
	for id, at := range times {
		it, err := s.checkArmable(id, at)
		if err != nil {
			return err
		}
		targets[it] = at
	}
	for it, at := range targets {
		s.arm(it, at)
	}
	return nil
}

// Cancel disarms id. Cancelling an item that is not armed is a no-op.
func (s *Store) Cancel(id string) error {
	it, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if it.ScheduledAt.IsZero() {
		return nil
	}
	heapRemoveByID(&s.armed, id)
	it.ScheduledAt = time.Time{}
	return nil
}

// CancelAll disarms every armed item and returns how many were disarmed.
func (s *Store) CancelAll() int {
	n := s.armed.Len()
	for _, it := range s.armed {
		it.ScheduledAt = time.Time{}
	}
	s.armed = s.armed[:0]
	return n
}

// popDue removes and returns the armed items due at now, earliest first.
// The items keep their ScheduledAt until commit or restore.
func (s *Store) popDue(now time.Time) []*ScheduledItem {
	var due []*ScheduledItem
	for s.armed.Len() > 0 && !s.armed[0].ScheduledAt.After(now) {
		due = append(due, heapPop(&s.armed))
	}
	return due
}

// restore puts popped items back into the armed heap.
func (s *Store) restore(items []*ScheduledItem) {
	for _, it := range items {
		heapPush(&s.armed, it)
	}
}

// commit marks a popped item as committed at now.
func (s *Store) commit(it *ScheduledItem, now time.Time) {
	it.Committed = true
	it.UnlockTime = now
	it.ScheduledAt = time.Time{}
}
