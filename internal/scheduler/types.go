package scheduler

import (
	"fmt"
	"time"
)

// UnknownRarity marks an item without a known global unlock percentage.
const UnknownRarity = -1.0

// ItemState is the unlock sub-machine state of a ScheduledItem.
type ItemState int

const (
	Unscheduled ItemState = iota
	Armed
	Committed
)

func (s ItemState) String() string {
	switch s {
	case Unscheduled:
		return "unscheduled"
	case Armed:
		return "armed"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// ScheduledItem is one achievement tracked by the schedule.
// A committed item never has ScheduledAt set.
type ScheduledItem struct {
	ID   string
	Name string
	// RarityPercent is the global unlock rate in [0,100] or UnknownRarity.
	RarityPercent float64
	// Protected items are tracked but can never be armed.
	Protected bool
	// ScheduledAt is zero unless the item is armed.
	ScheduledAt time.Time
	Committed   bool
	// UnlockTime is set when the item was committed or already achieved.
	UnlockTime time.Time
}

// State derives the sub-machine state from the item fields.
func (it ScheduledItem) State() ItemState {
	switch {
	case it.Committed:
		return Committed
	case !it.ScheduledAt.IsZero():
		return Armed
	default:
		return Unscheduled
	}
}

// AchievementStore is the record store the scheduler commits to.
type AchievementStore interface {
	GetAchievement(id string) (achieved bool, unlockUnixTime int64, ok bool)
	SetAchievement(id string, achieved bool) bool
	// GetGlobalPercent reports ok=false when the rarity is unknown.
	GetGlobalPercent(id string) (percent float32, ok bool)
}

// Terminator ends the hosting session when the countdown expires.
type Terminator interface {
	Terminate()
}

// TerminatorFunc adapts a function to Terminator.
type TerminatorFunc func()

// Terminate calls f.
func (f TerminatorFunc) Terminate() { f() }

// TickResult reports what a single Tick did.
type TickResult struct {
	// Committed lists the ids committed by this tick, in commit order.
	Committed []string
	// CountdownArmed is true while the countdown is still running.
	CountdownArmed bool
	// Remaining is the countdown time left when CountdownArmed is true.
	Remaining time.Duration
	// Terminated is true when this tick expired the countdown.
	Terminated bool
}
