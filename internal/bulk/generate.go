package bulk

import (
	"math"
	"time"
)

// curveK controls the steepness of the weighted curve. At 5.0 an 85% item
// gets roughly 1/70th of the share of a 0.1% item.
const curveK = 5.0

const (
	minPercent     = 0.01
	maxPercent     = 100.0
	defaultPercent = 50.0
)

// GenerateSchedule returns the unlock time of every item keyed by id.
// An empty item list yields an empty map.
func GenerateSchedule(items []CandidateItem, mode Mode, params Params) (map[string]time.Time, error) {
	slots, err := Plan(items, mode, params)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(slots))
	for _, s := range slots {
		out[s.ID] = s.At
	}
	return out, nil
}

// Plan is GenerateSchedule keeping input order and per-item allocations.
func Plan(items []CandidateItem, mode Mode, params Params) ([]Slot, error) {
	if err := params.validate(mode); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []Slot{}, nil
	}
	if mode == Sequential {
		return planSequential(items, params), nil
	}
	return planWeighted(items, params), nil
}

func planSequential(items []CandidateItem, p Params) []Slot {
	slots := make([]Slot, len(items))
	for i, item := range items {
		var alloc time.Duration
		if i > 0 {
			alloc = p.Interval
		}
		slots[i] = Slot{
			ID:        item.ID,
			At:        p.Start.Add(time.Duration(i) * p.Interval),
			Allocated: alloc,
		}
	}
	return slots
}

func planWeighted(items []CandidateItem, p Params) []Slot {
	difficulty := make([]float64, len(items))
	var total float64
	for i, item := range items {
		difficulty[i] = Difficulty(item.RarityPercent)
		total += difficulty[i]
	}
	scale := p.TotalDuration.Minutes() / total

	slots := make([]Slot, len(items))
	var cumulative float64
	for i, item := range items {
		// Jitter is applied after normalization; the realized total may
		// drift up to ±5% from TotalDuration.
		allocated := difficulty[i] * scale * Jitter(item.ID)
		cumulative += allocated
		slots[i] = Slot{
			ID:        item.ID,
			At:        p.Start.Add(minutes(cumulative)),
			Allocated: minutes(allocated),
		}
	}
	return slots
}

// Difficulty maps a global unlock percentage to its unnormalized weight,
// e^(k * (1 - p/100)). Unknown or negative percentages count as 50%.
func Difficulty(percent float64) float64 {
	if percent < 0 || math.IsNaN(percent) {
		percent = defaultPercent
	}
	percent = math.Max(minPercent, math.Min(maxPercent, percent))
	rarityScore := 1.0 - percent/100.0
	return math.Exp(curveK * rarityScore)
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
