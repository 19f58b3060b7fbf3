package bulk

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

var testStart = time.Date(2025, 1, 1, 17, 0, 0, 0, time.UTC)

func candidates(percents ...float64) []CandidateItem {
	items := make([]CandidateItem, len(percents))
	for i, p := range percents {
		items[i] = CandidateItem{ID: fmt.Sprintf("ACH_%02d", i), RarityPercent: p}
	}
	return items
}

func TestGenerateSchedule_SequentialScenario(t *testing.T) {
	got, err := GenerateSchedule(candidates(10, 20, 30), Sequential, Params{
		Start:    testStart,
		Interval: 5 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"ACH_00": "17:00:00",
		"ACH_01": "17:05:00",
		"ACH_02": "17:10:00",
	}
	for id, clock := range want {
		if got[id].Format("15:04:05") != clock {
			t.Errorf("%s scheduled at %s; want %s", id, got[id].Format("15:04:05"), clock)
		}
	}
}

func TestPlan_SequentialSpacing(t *testing.T) {
	interval := 7 * time.Minute
	slots, err := Plan(candidates(1, 2, 3, 4, 5, 6), Sequential, Params{Start: testStart, Interval: interval})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slots[0].At.Equal(testStart) {
		t.Errorf("first slot at %v; want %v", slots[0].At, testStart)
	}
	for i := 0; i+1 < len(slots); i++ {
		if d := slots[i+1].At.Sub(slots[i].At); d != interval {
			t.Errorf("gap %d->%d = %v; want %v", i, i+1, d, interval)
		}
	}
	if last := slots[len(slots)-1].At; !last.Equal(testStart.Add(5 * interval)) {
		t.Errorf("last slot at %v; want start+(n-1)*interval", last)
	}
}

func TestPlan_WeightedRareGetsLargerShare(t *testing.T) {
	slots, err := Plan(
		[]CandidateItem{{ID: "COMMON", RarityPercent: 85}, {ID: "RARE", RarityPercent: 0.1}},
		Weighted,
		Params{Start: testStart, TotalDuration: 6000 * time.Minute},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ratio := slots[1].Allocated.Minutes() / slots[0].Allocated.Minutes()
	if ratio < 50 {
		t.Errorf("rare/common share ratio = %.2f; want >= 50", ratio)
	}
}

func TestPlan_WeightedEqualRaritiesNearlyUniform(t *testing.T) {
	slots, err := Plan(candidates(30, 30, 30, 30, 30, 30, 30, 30), Weighted, Params{
		Start:         testStart,
		TotalDuration: 8 * time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range slots {
		m := s.Allocated.Minutes()
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	if hi/lo > jitterMax()/jitterMin+1e-9 {
		t.Errorf("allocations spread %.4f exceeds jitter bound %.4f", hi/lo, jitterMax()/jitterMin)
	}
	// nominal share is 60 minutes each
	if lo < 60*jitterMin-1e-6 || hi > 60*jitterMax()+1e-6 {
		t.Errorf("allocations [%.3f, %.3f] outside 60m ± 5%%", lo, hi)
	}
}

func TestPlan_WeightedTotalWithinJitterBound(t *testing.T) {
	tests := []struct {
		name  string
		items []CandidateItem
		total time.Duration
	}{
		{"two items", candidates(85, 0.1), 6000 * time.Minute},
		{"mixed", candidates(99, 72.5, 40, 12, 3.3, 0.5, -1), 3 * time.Hour},
		{"single", candidates(50), 90 * time.Minute},
		{"many", candidates(90, 80, 70, 60, 50, 40, 30, 20, 10, 5, 1, 0.2), 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Plan(tt.items, Weighted, Params{Start: testStart, TotalDuration: tt.total})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			realized := slots[len(slots)-1].At.Sub(testStart)
			lo := time.Duration(float64(tt.total) * jitterMin)
			hi := time.Duration(float64(tt.total) * jitterMax())
			if realized < lo-time.Second || realized > hi+time.Second {
				t.Errorf("realized total %v outside [%v, %v]", realized, lo, hi)
			}
		})
	}
}

func TestPlan_WeightedKeepsInputOrder(t *testing.T) {
	items := candidates(0.5, 90, 10)
	slots, err := Plan(items, Weighted, Params{Start: testStart, TotalDuration: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range slots {
		if s.ID != items[i].ID {
			t.Errorf("slot %d is %s; want %s", i, s.ID, items[i].ID)
		}
		if i > 0 && !s.At.After(slots[i-1].At) {
			t.Errorf("slot %d at %v not after previous %v", i, s.At, slots[i-1].At)
		}
	}
}

func TestDifficulty_MonotoneInRarity(t *testing.T) {
	percents := []float64{100, 85, 50, 25, 10, 1, 0.1, 0.01}
	for i := 0; i+1 < len(percents); i++ {
		common, rarer := Difficulty(percents[i]), Difficulty(percents[i+1])
		if !(common < rarer) {
			t.Errorf("Difficulty(%v)=%v not < Difficulty(%v)=%v", percents[i], common, percents[i+1], rarer)
		}
	}
}

func TestDifficulty_UnknownAndClamping(t *testing.T) {
	if Difficulty(UnknownRarity) != Difficulty(50) {
		t.Error("unknown rarity should be treated as 50%")
	}
	if Difficulty(0) != Difficulty(0.01) {
		t.Error("0% should clamp to 0.01%")
	}
	if Difficulty(150) != Difficulty(100) {
		t.Error("150% should clamp to 100%")
	}
	if Difficulty(100) != 1 {
		t.Errorf("Difficulty(100) = %v; want 1", Difficulty(100))
	}
}

func TestJitter_StableAndBounded(t *testing.T) {
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("ACH_WIN_%d", i)
		j := Jitter(id)
		if j < jitterMin || j >= jitterMax() {
			t.Fatalf("Jitter(%q) = %v outside [0.95, 1.05)", id, j)
		}
		if again := Jitter(id); again != j {
			t.Fatalf("Jitter(%q) not stable: %v then %v", id, j, again)
		}
	}
}

func TestPlan_RegenerationIsStable(t *testing.T) {
	items := candidates(70, 20, 2)
	p := Params{Start: testStart, TotalDuration: 2 * time.Hour}
	a, _ := GenerateSchedule(items, Weighted, p)
	b, _ := GenerateSchedule(items, Weighted, p)
	for id, at := range a {
		if !b[id].Equal(at) {
			t.Errorf("%s regenerated at %v; first run %v", id, b[id], at)
		}
	}
}

func TestGenerateSchedule_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		params Params
		want   error
	}{
		{"zero interval", Sequential, Params{Start: testStart}, ErrInvalidInterval},
		{"negative interval", Sequential, Params{Start: testStart, Interval: -time.Minute}, ErrInvalidInterval},
		{"zero duration", Weighted, Params{Start: testStart}, ErrInvalidDuration},
		{"negative duration", Weighted, Params{Start: testStart, TotalDuration: -time.Hour}, ErrInvalidDuration},
		{"unknown mode", Mode(7), Params{Start: testStart, Interval: time.Minute}, ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSchedule(candidates(10), tt.mode, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGenerateSchedule_EmptyItems(t *testing.T) {
	got, err := GenerateSchedule(nil, Weighted, Params{Start: testStart, TotalDuration: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %v", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{"sequential": Sequential, "Smart": Weighted, " weighted ": Weighted, "interval": Sequential}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("random"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func jitterMax() float64 { return jitterMin + jitterSpan }
