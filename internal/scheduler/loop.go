package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/samsched/samsched/pkg/logger"
)

// DefaultInterval is the poll period used when Loop.Interval is unset.
const DefaultInterval = time.Second

// StopReason says why Loop.Run returned.
type StopReason int

const (
	StopCancelled StopReason = iota
	StopTerminated
	StopIdle
)

func (r StopReason) String() string {
	switch r {
	case StopCancelled:
		return "cancelled"
	case StopTerminated:
		return "terminated"
	case StopIdle:
		return "idle"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Ticker is the part of *time.Ticker the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Loop drives a Scheduler by calling Tick on every interval. It is the only
// caller of Tick.
type Loop struct {
	Scheduler *Scheduler
	Interval  time.Duration
	// NewTicker defaults to NewTimeTicker.
	NewTicker func(time.Duration) Ticker
	Logger    logger.Logger
	// OnTick observes every tick result, including failed ones.
	OnTick func(TickResult, error)
	// StopWhenIdle ends the loop once nothing is armed and no countdown runs.
	StopWhenIdle bool
}

// Run ticks immediately and then on every interval until ctx is done, the
// countdown terminates the session or, with StopWhenIdle, the schedule is
// drained. Tick errors and panics are logged and the loop continues.
func (l *Loop) Run(ctx context.Context) StopReason {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	newTicker := l.NewTicker
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	log := l.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	if reason, stop := l.step(log); stop {
		return reason
	}
	ticker := newTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return StopCancelled
		case <-ticker.C():
			if reason, stop := l.step(log); stop {
				return reason
			}
		}
	}
}

func (l *Loop) step(log logger.Logger) (StopReason, bool) {
	res, err := l.safeTick(log)
	if err != nil {
		var ce *CommitError
		if errors.As(err, &ce) {
			log.Warning("%v", err)
		} else {
			log.Error("tick failed: %v", err)
		}
	}
	if l.OnTick != nil {
		l.OnTick(res, err)
	}
	if res.Terminated {
		return StopTerminated, true
	}
	if l.StopWhenIdle && l.Scheduler.Idle() {
		return StopIdle, true
	}
	return 0, false
}

// safeTick runs one Tick and converts a panic into an error.
func (l *Loop) safeTick(log logger.Logger) (res TickResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC [tick]: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()
	return l.Scheduler.Tick()
}
