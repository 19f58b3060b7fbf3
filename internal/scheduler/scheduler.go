package scheduler

import (
	"fmt"
	"time"

	"github.com/samsched/samsched/internal/bulk"
	"github.com/samsched/samsched/internal/clock"
	"github.com/samsched/samsched/internal/countdown"
	"github.com/samsched/samsched/pkg/logger"
)

// Config wires a Scheduler to its collaborators.
type Config struct {
	// SessionKey scopes the persisted countdown, e.g. the game id.
	SessionKey string
	Store      AchievementStore
	Terminator Terminator
	// Persistence stores the countdown across restarts. When nil the
	// countdown lives in memory only.
	Persistence *countdown.Persistence
	Clock       clock.Clock
	Logger      logger.Logger
	// OnRemaining is called by Tick with the time left while the countdown
	// is running.
	OnRemaining func(remaining time.Duration)
}

// Scheduler reconciles one session's schedule and countdown.
type Scheduler struct {
	key         string
	store       AchievementStore
	terminator  Terminator
	persist     *countdown.Persistence
	clock       clock.Clock
	log         logger.Logger
	onRemaining func(time.Duration)

	items *Store

	countdown      countdown.State
	countdownArmed bool
}

// New creates a Scheduler with an empty schedule and a disarmed countdown.
// Call Resume to pick up a countdown armed by a previous run.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	if cfg.SessionKey == "" {
		return nil, ErrMissingSession
	}
	s := &Scheduler{
		key:         cfg.SessionKey,
		store:       cfg.Store,
		terminator:  cfg.Terminator,
		persist:     cfg.Persistence,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		onRemaining: cfg.OnRemaining,
		items:       NewStore(),
	}
	if s.terminator == nil {
		s.terminator = TerminatorFunc(func() {})
	}
	if s.clock == nil {
		s.clock = clock.NewRealClock()
	}
	if s.log == nil {
		s.log = logger.NewNopLogger()
	}
	return s, nil
}

// SessionKey returns the key the countdown is persisted under.
func (s *Scheduler) SessionKey() string { return s.key }

// Items returns the schedule store.
func (s *Scheduler) Items() *Store { return s.items }

// Track registers an achievement, reading its current state and rarity from
// the achievement store. Already achieved items are tracked as committed.
func (s *Scheduler) Track(id, name string, protected bool) error {
	achieved, unlockUnix, ok := s.store.GetAchievement(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	item := ScheduledItem{
		ID:            id,
		Name:          name,
		RarityPercent: UnknownRarity,
		Protected:     protected,
		Committed:     achieved,
	}
	if achieved && unlockUnix > 0 {
		item.UnlockTime = time.Unix(unlockUnix, 0)
	}
	if pct, ok := s.store.GetGlobalPercent(id); ok {
		item.RarityPercent = float64(pct)
	}
	s.items.Track(item)
	return nil
}

// Arm schedules a single item at at. It replaces any earlier time.
func (s *Scheduler) Arm(id string, at time.Time) error {
	if err := s.items.Arm(id, at); err != nil {
		return err
	}
	s.log.Info("scheduled %s at %s", id, at.Format(time.RFC3339))
	return nil
}

// Item returns the tracked item with id.
func (s *Scheduler) Item(id string) (ScheduledItem, bool) {
	return s.items.Get(id)
}

// Cancel removes the schedule of a single item.
func (s *Scheduler) Cancel(id string) error {
	return s.items.Cancel(id)
}

// ApplySchedule arms every entry of times. Nothing is armed when any id is
// unknown, committed or protected.
func (s *Scheduler) ApplySchedule(times map[string]time.Time) error {
	if err := s.items.ArmAll(times); err != nil {
		return err
	}
	s.log.Info("scheduled %d achievement(s)", len(times))
	return nil
}

// ScheduleBulk generates times for ids, in the given order, and arms them.
// It fails without arming anything when ids is empty, repeats an id or names
// an item that cannot be armed.
func (s *Scheduler) ScheduleBulk(ids []string, mode bulk.Mode, params bulk.Params) ([]bulk.Slot, error) {
	if len(ids) == 0 {
		return nil, ErrNoCandidates
	}
	seen := make(map[string]struct{}, len(ids))
	candidates := make([]bulk.CandidateItem, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, id)
		}
		seen[id] = struct{}{}
		it, ok := s.items.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		candidates = append(candidates, bulk.CandidateItem{ID: it.ID, RarityPercent: it.RarityPercent})
	}
	slots, err := bulk.Plan(candidates, mode, params)
	if err != nil {
		return nil, fmt.Errorf("generate %s schedule: %w", mode, err)
	}
	times := make(map[string]time.Time, len(slots))
	for _, slot := range slots {
		times[slot.ID] = slot.At
	}
	if err := s.ApplySchedule(times); err != nil {
		return nil, err
	}
	return slots, nil
}

// ArmCountdown starts a countdown of totalSeconds from now, replacing any
// running one, and persists it. A persistence failure is logged and the
// countdown still runs for this session.
func (s *Scheduler) ArmCountdown(totalSeconds int) error {
	if totalSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCountdown, totalSeconds)
	}
	s.countdown = countdown.State{TotalSeconds: totalSeconds, StartedAt: s.clock.Now()}
	s.countdownArmed = true
	if s.persist != nil {
		_ = s.persist.Save(s.key, s.countdown)
	}
	s.log.Info("auto-close armed for %s", countdown.FormatSeconds(totalSeconds))
	return nil
}

// DisarmCountdown cancels the countdown without terminating the session.
func (s *Scheduler) DisarmCountdown() {
	s.countdownArmed = false
	s.countdown = countdown.State{}
	if s.persist != nil {
		_ = s.persist.Clear(s.key)
	}
}

// Resume loads a countdown armed by a previous run of this session. It
// reports whether one is now running.
func (s *Scheduler) Resume() bool {
	if s.persist == nil {
		return false
	}
	st, ok := s.persist.Load(s.key)
	if !ok {
		return false
	}
	s.countdown = st
	s.countdownArmed = true
	s.log.Info("auto-close resumed, %s remaining", countdown.FormatRemaining(st.Remaining(s.clock.Now())))
	return true
}

// Countdown returns the running countdown.
func (s *Scheduler) Countdown() (countdown.State, bool) {
	return s.countdown, s.countdownArmed
}

// Remaining returns the countdown time left at the current clock reading.
func (s *Scheduler) Remaining() (time.Duration, bool) {
	if !s.countdownArmed {
		return 0, false
	}
	return s.countdown.Remaining(s.clock.Now()), true
}

// AutoDuration returns the countdown time left truncated to whole minutes,
// for use as the weighted distribution window. It reports false when no
// countdown is running or less than a minute is left.
func (s *Scheduler) AutoDuration() (time.Duration, bool) {
	rem, ok := s.Remaining()
	if !ok {
		return 0, false
	}
	d := rem.Truncate(time.Minute)
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// Idle reports whether nothing is left to reconcile.
func (s *Scheduler) Idle() bool {
	return !s.countdownArmed && s.items.ArmedCount() == 0
}

// Tick commits every due item and advances the countdown. It returns a
// *CommitError when the store rejects an unlock; the countdown is evaluated
// either way.
func (s *Scheduler) Tick() (TickResult, error) {
	now := s.clock.Now()
	var res TickResult
	err := s.commitDue(now, &res)
	s.tickCountdown(now, &res)
	return res, err
}

// commitDue pops due items and commits them in order. Items not committed,
// whether the store refused or panicked, go back into the armed heap.
func (s *Scheduler) commitDue(now time.Time, res *TickResult) error {
	due := s.items.popDue(now)
	next := 0
	defer func() {
		if next < len(due) {
			s.items.restore(due[next:])
		}
	}()
	for ; next < len(due); next++ {
		it := due[next]
		if !s.store.SetAchievement(it.ID, true) {
			return &CommitError{ID: it.ID, Pending: len(due) - next}
		}
		s.items.commit(it, now)
		res.Committed = append(res.Committed, it.ID)
		s.log.Info("unlocked %s", it.ID)
	}
	return nil
}

func (s *Scheduler) tickCountdown(now time.Time, res *TickResult) {
	if !s.countdownArmed {
		return
	}
	rem := s.countdown.Remaining(now)
	if rem > 0 {
		res.CountdownArmed = true
		res.Remaining = rem
		if s.onRemaining != nil {
			s.onRemaining(rem)
		}
		return
	}
	s.countdownArmed = false
	s.countdown = countdown.State{}
	if s.persist != nil {
		_ = s.persist.Clear(s.key)
	}
	res.Terminated = true
	s.log.Info("auto-close countdown for %s expired, ending session", s.key)
	s.terminator.Terminate()
}
