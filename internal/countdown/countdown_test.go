package countdown

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samsched/samsched/internal/clock"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/spf13/afero"
)

const testDir = "/data/SAM"

var testNow = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

func newTestPersistence(t *testing.T) (*Persistence, afero.Fs, *clock.MockClock, *logger.MockLogger) {
	t.Helper()
	fs := afero.NewMemMapFs()
	c := clock.NewMockClock(testNow)
	l := logger.NewMockLogger()
	return NewPersistence(fs, testDir, c, l), fs, c, l
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p, _, _, _ := newTestPersistence(t)
	s := State{TotalSeconds: 3600, StartedAt: testNow}

	if err := p.Save("480", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := p.Load("480")
	if !ok {
		t.Fatal("expected countdown to be armed after Save")
	}
	if !got.StartedAt.Equal(s.StartedAt) || got.TotalSeconds != s.TotalSeconds {
		t.Errorf("loaded %+v; want %+v", got, s)
	}
	rem := got.Remaining(testNow)
	if diff := time.Duration(s.TotalSeconds)*time.Second - rem; diff < 0 || diff > time.Second {
		t.Errorf("remaining %v not within 1s of %ds", rem, s.TotalSeconds)
	}
}

func TestLoad_ResumesAfterRestart(t *testing.T) {
	p, fs, c, _ := newTestPersistence(t)
	if err := p.Save("730", State{TotalSeconds: 600, StartedAt: testNow}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// process restarts 4 minutes later
	c.Advance(4 * time.Minute)
	restarted := NewPersistence(fs, testDir, c, nil)
	got, ok := restarted.Load("730")
	if !ok {
		t.Fatal("expected countdown to resume")
	}
	if rem := got.Remaining(c.Now()); rem != 6*time.Minute {
		t.Errorf("remaining after restart = %v; want 6m", rem)
	}
}

func TestLoad_ExpiredIsClearedNotResumed(t *testing.T) {
	p, fs, _, _ := newTestPersistence(t)
	total := 900
	started := testNow.Add(-time.Duration(total)*time.Second - time.Second)
	if err := afero.WriteFile(fs, p.Path("480"), Encode(State{TotalSeconds: total, StartedAt: started}), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if _, ok := p.Load("480"); ok {
		t.Fatal("expected expired countdown to load as not armed")
	}
	if exists, _ := afero.Exists(fs, p.Path("480")); exists {
		t.Error("expected expired countdown file to be deleted")
	}
}

func TestLoad_ExactlyAtDeadlineIsExpired(t *testing.T) {
	p, _, c, _ := newTestPersistence(t)
	if err := p.Save("1", State{TotalSeconds: 60, StartedAt: testNow}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	c.Advance(time.Minute)
	if _, ok := p.Load("1"); ok {
		t.Error("remaining == 0 must not resume")
	}
	if p.Exists("1") {
		t.Error("expected file removed at deadline")
	}
}

func TestLoad_Missing(t *testing.T) {
	p, _, _, l := newTestPersistence(t)
	if _, ok := p.Load("999"); ok {
		t.Error("expected not armed for missing file")
	}
	if len(l.Warnings()) != 0 {
		t.Errorf("missing file should not warn, got %v", l.Warnings())
	}
}

func TestLoad_MalformedIsDeleted(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"one line", "3600\n"},
		{"bad seconds", "soon\n2025-03-14T20:00:00Z\n"},
		{"bad time", "3600\n14/03/2025 20:00\n"},
		{"zero seconds", "0\n2025-03-14T20:00:00Z\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, fs, _, l := newTestPersistence(t)
			if err := afero.WriteFile(fs, p.Path("480"), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if _, ok := p.Load("480"); ok {
				t.Fatal("expected malformed file to load as not armed")
			}
			if p.Exists("480") {
				t.Error("expected malformed file to be deleted")
			}
			if len(l.Warnings()) == 0 {
				t.Error("expected a warning for malformed file")
			}
		})
	}
}

func TestDecode_ToleratesCRLF(t *testing.T) {
	s, err := Decode([]byte("120\r\n2025-03-14T20:00:00.5+01:00\r\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := time.Date(2025, 3, 14, 19, 0, 0, 500_000_000, time.UTC)
	if s.TotalSeconds != 120 || !s.StartedAt.Equal(want) {
		t.Errorf("decoded %+v", s)
	}
}

func TestEncode_Format(t *testing.T) {
	got := string(Encode(State{TotalSeconds: 5400, StartedAt: testNow}))
	if got != "5400\n2025-03-14T20:00:00Z\n" {
		t.Errorf("Encode = %q", got)
	}
}

func TestClear(t *testing.T) {
	p, _, _, _ := newTestPersistence(t)
	if err := p.Save("480", State{TotalSeconds: 10, StartedAt: testNow}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := p.Clear("480"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if p.Exists("480") {
		t.Error("expected file removed")
	}
	if err := p.Clear("480"); err != nil {
		t.Errorf("Clear of missing file should be nil, got %v", err)
	}
}

func TestSave_ReadOnlyFsLogsAndReturnsError(t *testing.T) {
	l := logger.NewMockLogger()
	p := NewPersistence(afero.NewReadOnlyFs(afero.NewMemMapFs()), testDir, clock.NewMockClock(testNow), l)

	err := p.Save("480", State{TotalSeconds: 60, StartedAt: testNow})
	if err == nil {
		t.Fatal("expected error on read-only fs")
	}
	warnings := l.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "will not survive a restart") {
		t.Errorf("expected one persistence warning, got %v", warnings)
	}
}

func TestSave_Validation(t *testing.T) {
	p, _, _, _ := newTestPersistence(t)
	if err := p.Save("480", State{TotalSeconds: 0, StartedAt: testNow}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := p.Save(key, State{TotalSeconds: 1, StartedAt: testNow}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
