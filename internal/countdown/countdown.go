// Package countdown persists the auto-close countdown of a session so that
// it survives the process being closed and relaunched.
//
// A countdown is stored as a small text file per session key: line one is
// the total length in seconds, line two the absolute start time in
// RFC 3339 format with nanoseconds. The file exists exactly while the
// countdown is armed. Because the start time is absolute, time spent while
// the process was not running still counts against the countdown.
package countdown

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samsched/samsched/internal/clock"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/spf13/afero"
)

// timeLayout must round-trip exactly.
const timeLayout = time.RFC3339Nano

var (
	ErrInvalidKey   = errors.New("invalid session key")
	ErrInvalidState = errors.New("invalid countdown state")
	ErrMalformed    = errors.New("malformed countdown file")
)

// State is an armed countdown.
type State struct {
	TotalSeconds int
	StartedAt    time.Time
}

// Deadline is the instant the countdown reaches zero.
func (s State) Deadline() time.Time {
	return s.StartedAt.Add(time.Duration(s.TotalSeconds) * time.Second)
}

// Remaining returns TotalSeconds - (now - StartedAt). It is negative once
// the deadline has passed.
func (s State) Remaining(now time.Time) time.Duration {
	return s.Deadline().Sub(now)
}

// Expired reports whether the remaining time is zero or less.
func (s State) Expired(now time.Time) bool {
	return s.Remaining(now) <= 0
}

func (s State) validate() error {
	if s.TotalSeconds <= 0 {
		return fmt.Errorf("%w: total seconds must be > 0, got %d", ErrInvalidState, s.TotalSeconds)
	}
	if s.StartedAt.IsZero() {
		return fmt.Errorf("%w: start time not set", ErrInvalidState)
	}
	return nil
}

// Encode renders s in the two-line file format.
func Encode(s State) []byte {
	var buf bytes.Buffer
	buf.WriteString(strconv.Itoa(s.TotalSeconds))
	buf.WriteByte('\n')
	buf.WriteString(s.StartedAt.Format(timeLayout))
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Decode parses the two-line file format.
func Decode(data []byte) (State, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(lines) < 2 {
		return State{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrMalformed, len(lines))
	}
	total, err := strconv.Atoi(lines[0])
	if err != nil {
		return State{}, fmt.Errorf("%w: seconds: %v", ErrMalformed, err)
	}
	started, err := time.Parse(timeLayout, lines[1])
	if err != nil {
		return State{}, fmt.Errorf("%w: start time: %v", ErrMalformed, err)
	}
	s := State{TotalSeconds: total, StartedAt: started}
	if err := s.validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// Persistence reads and writes countdown files under dir on fs.
type Persistence struct {
	fs    afero.Fs
	dir   string
	clock clock.Clock
	log   logger.Logger
}

// NewPersistence creates a Persistence. A nil clock uses the real clock and a
// nil logger discards messages.
func NewPersistence(fs afero.Fs, dir string, c clock.Clock, l logger.Logger) *Persistence {
	if c == nil {
		c = clock.NewRealClock()
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Persistence{fs: fs, dir: dir, clock: c, log: l}
}

// Path returns the countdown file for key.
func (p *Persistence) Path(key string) string {
	return filepath.Join(p.dir, "timer_"+key+".txt")
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\:`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Load returns the armed countdown for key. It reports false when no
// countdown is stored, when the stored one has already expired, or when the
// file cannot be parsed; expired and unparsable files are deleted so they
// never resume as a fresh countdown.
func (p *Persistence) Load(key string) (State, bool) {
	if err := validateKey(key); err != nil {
		p.log.Warning("countdown: %v", err)
		return State{}, false
	}
	path := p.Path(key)
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.log.Warning("countdown: read %s: %v", path, err)
		}
		return State{}, false
	}
	s, err := Decode(data)
	if err != nil {
		p.log.Warning("countdown: discarding %s: %v", path, err)
		_ = p.Clear(key)
		return State{}, false
	}
	if s.Expired(p.clock.Now()) {
		p.log.Info("countdown: %s expired while not running, clearing", key)
		_ = p.Clear(key)
		return State{}, false
	}
	return s, true
}

// Save writes s for key. The write goes to a temporary file renamed into
// place. Errors are logged and returned; callers treat them as non-fatal.
func (p *Persistence) Save(key string, s State) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	if err := p.save(key, s); err != nil {
		p.log.Warning("countdown: %v; countdown for %s will not survive a restart", err, key)
		return err
	}
	return nil
}

func (p *Persistence) save(key string, s State) error {
	if err := p.fs.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	path := p.Path(key)
	tmp := path + ".tmp"
	if err := afero.WriteFile(p.fs, tmp, Encode(s), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := p.fs.Rename(tmp, path); err != nil {
		_ = p.fs.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Clear deletes the countdown for key. A missing file is not an error.
func (p *Persistence) Clear(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := p.Path(key)
	if err := p.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warning("countdown: remove %s: %v", path, err)
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a countdown file is present for key, without
// validating or expiring it.
func (p *Persistence) Exists(key string) bool {
	if validateKey(key) != nil {
		return false
	}
	ok, err := afero.Exists(p.fs, p.Path(key))
	return err == nil && ok
}
