package bulk

import (
	"sort"
	"time"
)

// SortByRarity orders items most common first. Items with unknown rarity go
// last; equal percentages keep their relative order.
func SortByRarity(items []CandidateItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].RarityPercent, items[j].RarityPercent
		switch {
		case a < 0 && b < 0:
			return false
		case a < 0:
			return false
		case b < 0:
			return true
		}
		return a > b
	})
}

// Summary describes a generated schedule for confirmation output.
type Summary struct {
	Count int
	First time.Time
	Last  time.Time
	// Span is the distance from the generation start to Last. For Weighted
	// it is the realized total duration.
	Span time.Duration
}

// Summarize reports the count and the earliest and latest times of slots.
// start is the Params.Start the slots were generated with.
func Summarize(slots []Slot, start time.Time) Summary {
	s := Summary{Count: len(slots)}
	for i, slot := range slots {
		if i == 0 || slot.At.Before(s.First) {
			s.First = slot.At
		}
		if i == 0 || slot.At.After(s.Last) {
			s.Last = slot.At
		}
	}
	if len(slots) > 0 {
		s.Span = s.Last.Sub(start)
	}
	return s
}
