package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/samsched/samsched/internal/bulk"
	"github.com/samsched/samsched/internal/scheduler"
	"github.com/urfave/cli"
)

const startAtLayout = "2006-01-02 15:04"

var (
	planMode    string
	startAt     string
	startIn     string
	startCron   string
	intervalMin int
	durationMin int
	onlyIDs     string
	keepOrder   bool

	planFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "mode, m",
			Usage:       "distribution mode: weighted or sequential",
			Value:       DEF_MODE,
			Destination: &planMode,
		},
		cli.StringFlag{
			Name:        "start-at",
			Usage:       "start the schedule at a local time (YYYY-MM-DD HH:MM)",
			Destination: &startAt,
		},
		cli.StringFlag{
			Name:        "start-in",
			Usage:       "start the schedule after a delay (e.g. 30m, 1h30m)",
			Destination: &startIn,
		},
		cli.StringFlag{
			Name:        "start-cron",
			Usage:       "start the schedule at the next match of a 5-field cron expression",
			Destination: &startCron,
		},
		cli.IntFlag{
			Name:        "interval, i",
			Usage:       "minutes between unlocks in sequential mode",
			Value:       DEF_INTERVAL_MIN,
			Destination: &intervalMin,
		},
		cli.IntFlag{
			Name:        "duration, d",
			Usage:       "window in minutes for weighted mode (default: time left on the countdown)",
			Destination: &durationMin,
		},
		cli.StringFlag{
			Name:        "only",
			Usage:       "comma separated achievement ids to schedule (default: every locked one)",
			Destination: &onlyIDs,
		},
		cli.BoolFlag{
			Name:        "keep-order, k",
			Usage:       "schedule in --only or id order instead of common achievements first",
			Destination: &keepOrder,
		},
	}
)

// parseStartAt validates and parses a --start-at value.
// Returns the parsed time or an error with the expected format.
func parseStartAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("error: invalid --start-at format, expected YYYY-MM-DD HH:MM")
	}
	t, err := time.ParseInLocation(startAtLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("error: invalid --start-at format, expected YYYY-MM-DD HH:MM")
	}
	return t, nil
}

// parseStartIn resolves a --start-in duration against now. Zero durations
// are valid and resolve to now.
func parseStartIn(value string, now time.Time) (time.Time, error) {
	d, err := time.ParseDuration(value)
	if value == "" || err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("error: invalid --start-in duration, expected format like 2h, 30m, or 1h30m (use 24h for a day)")
	}
	return now.Add(d), nil
}

// validateCron checks a --start-cron expression. Exactly 5 fields are
// accepted even though gronx also parses a seconds field.
func validateCron(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// parseStartCron returns the next time after now matching expr. Expressions
// with no match within a year are rejected.
func parseStartCron(expr string, now time.Time) (time.Time, error) {
	if err := validateCron(expr); err != nil {
		return time.Time{}, err
	}
	next, err := gronx.NextTickAfter(expr, now, false)
	if err != nil || !next.Before(now.Add(365*24*time.Hour)) {
		return time.Time{}, fmt.Errorf("error: cron expression %q has no occurrence within a year", expr)
	}
	return next, nil
}

// resolveStart picks the schedule start from at most one of the start flags.
// A start in the past is moved to now with a warning.
func resolveStart(at, in, cron string, now time.Time) (start time.Time, warning string, err error) {
	set := 0
	for _, v := range []string{at, in, cron} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return time.Time{}, "", fmt.Errorf("error: flags --start-at, --start-in and --start-cron are mutually exclusive")
	}
	switch {
	case at != "":
		start, err = parseStartAt(at)
	case in != "":
		start, err = parseStartIn(in, now)
	case cron != "":
		start, err = parseStartCron(cron, now)
	default:
		start = now
	}
	if err != nil {
		return time.Time{}, "", err
	}
	if start.Before(now) {
		return now, "warning: start time is in the past, starting now", nil
	}
	return start, "", nil
}

// splitIDs parses the --only list, dropping blanks and duplicates.
func splitIDs(value string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range strings.Split(value, ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// selectCandidates returns the ids to schedule: the --only list, or every
// eligible item. They come most common first, unknown rarity last, unless
// keep is set. Ineligible ids in --only are left for ScheduleBulk to reject.
func selectCandidates(store *scheduler.Store, only []string, keep bool) []string {
	var items []bulk.CandidateItem
	if len(only) > 0 {
		for _, id := range only {
			it, ok := store.Get(id)
			pct := scheduler.UnknownRarity
			if ok {
				pct = it.RarityPercent
			}
			items = append(items, bulk.CandidateItem{ID: id, RarityPercent: pct})
		}
	} else {
		for _, it := range store.Eligible() {
			items = append(items, bulk.CandidateItem{ID: it.ID, RarityPercent: it.RarityPercent})
		}
	}
	if !keep {
		bulk.SortByRarity(items)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// planParams builds generator parameters from the plan flags. In weighted
// mode without --duration the window falls back to auto, the whole minutes
// left on the countdown.
func planParams(mode bulk.Mode, start time.Time, auto func() (time.Duration, bool)) (bulk.Params, error) {
	p := bulk.Params{Start: start}
	switch mode {
	case bulk.Sequential:
		if intervalMin <= 0 {
			return p, fmt.Errorf("error: --interval must be greater than zero")
		}
		p.Interval = time.Duration(intervalMin) * time.Minute
	case bulk.Weighted:
		if durationMin > 0 {
			p.TotalDuration = time.Duration(durationMin) * time.Minute
			break
		}
		if durationMin < 0 {
			return p, fmt.Errorf("error: --duration must be greater than zero")
		}
		d, ok := auto()
		if !ok {
			return p, fmt.Errorf("error: weighted mode needs --duration or a running countdown")
		}
		p.TotalDuration = d
	}
	return p, nil
}
