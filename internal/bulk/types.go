package bulk

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnknownRarity marks an item whose global unlock percentage is not known.
const UnknownRarity = -1.0

var (
	ErrInvalidInterval = errors.New("interval must be greater than zero")
	ErrInvalidDuration = errors.New("total duration must be greater than zero")
	ErrUnknownMode     = errors.New("unknown distribution mode")
)

// Mode selects the distribution algorithm.
type Mode int

const (
	// Sequential schedules item i at Start + i*Interval.
	Sequential Mode = iota
	// Weighted spreads items over TotalDuration by rarity.
	Weighted
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Weighted:
		return "weighted"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name. "smart" is accepted as an alias of weighted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "interval", "uniform":
		return Sequential, nil
	case "weighted", "smart":
		return Weighted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// CandidateItem is one achievement offered to the generator.
type CandidateItem struct {
	ID string
	// RarityPercent is the global unlock rate in [0,100], or UnknownRarity.
	RarityPercent float64
}

// Params holds the generator inputs. Interval is used by Sequential,
// TotalDuration by Weighted.
type Params struct {
	Start         time.Time
	Interval      time.Duration
	TotalDuration time.Duration
}

func (p Params) validate(mode Mode) error {
	switch mode {
	case Sequential:
		if p.Interval <= 0 {
			return ErrInvalidInterval
		}
	case Weighted:
		if p.TotalDuration <= 0 {
			return ErrInvalidDuration
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	return nil
}

// Slot is the generated placement of one item.
type Slot struct {
	ID string
	At time.Time
	// Allocated is the share of the window consumed by this item. For
	// Sequential it is the interval (zero for the first item).
	Allocated time.Duration
}
