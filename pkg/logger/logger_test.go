package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardLogger_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *StandardLogger)
		prefix string
		want   string
	}{
		{"info", func(l *StandardLogger) { l.Info("countdown resumed for %s", "480") }, "[INFO]", "countdown resumed for 480"},
		{"warning", func(l *StandardLogger) { l.Warning("retry %d", 2) }, "[WARNING]", "retry 2"},
		{"error", func(l *StandardLogger) { l.Error("write failed: %v", "disk full") }, "[ERROR]", "write failed: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := NewStandardLogger(log.New(buf, "", 0))
			tt.log(l)
			out := buf.String()
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected message %q, got: %s", tt.want, out)
			}
		})
	}
}

func TestStandardLogger_CloseWithoutFile(t *testing.T) {
	l := NewStandardLogger(log.New(&bytes.Buffer{}, "", 0))
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestFileLogger_WritesAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "session.log")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Warning("countdown for %s not persisted", "730")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// second close is a no-op
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[WARNING] countdown for 730 not persisted") {
		t.Errorf("unexpected log content: %q", data)
	}
}

func TestQuietLogger_DropsInfo(t *testing.T) {
	mock := NewMockLogger()
	q := NewQuietLogger(mock)

	q.Info("tick")
	q.Warning("slow tick")
	q.Error("store failed")

	if len(mock.InfoCalls) != 0 {
		t.Errorf("expected info to be dropped, got %v", mock.InfoCalls)
	}
	if len(mock.WarningCalls) != 1 || len(mock.ErrorCalls) != 1 {
		t.Errorf("expected warning and error to pass, got %v / %v", mock.WarningCalls, mock.ErrorCalls)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("test")
	l.Warning("test")
	l.Error("test")
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	l := NewMockLogger()

	l.Info("info %d", 1)
	l.Warning("warn %s", "test")
	l.Error("err %v", "fail")

	if len(l.InfoCalls) != 1 || l.InfoCalls[0] != "info 1" {
		t.Errorf("unexpected info calls: %v", l.InfoCalls)
	}
	if w := l.Warnings(); len(w) != 1 || w[0] != "warn test" {
		t.Errorf("unexpected warning calls: %v", w)
	}
	if e := l.Errors(); len(e) != 1 || e[0] != "err fail" {
		t.Errorf("unexpected error calls: %v", e)
	}
}

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	mock1 := NewMockLogger()
	mock2 := NewMockLogger()

	multi := NewMultiLogger(mock1, nil, mock2)

	multi.Info("info msg")
	multi.Warning("warn msg")
	multi.Error("error msg")

	for i, m := range []*MockLogger{mock1, mock2} {
		if len(m.InfoCalls) != 1 || len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
			t.Errorf("logger %d did not receive every message", i)
		}
	}
}

// failingCloseLogger returns an error on Close.
type failingCloseLogger struct {
	NopLogger
	closeErr error
}

func (f *failingCloseLogger) Close() error {
	return f.closeErr
}

func TestMultiLogger_Close_ReturnsFirstError(t *testing.T) {
	err1 := errors.New("logger1 failed to close")
	err2 := errors.New("logger2 failed to close")
	mock := NewMockLogger()

	multi := NewMultiLogger(&failingCloseLogger{closeErr: err1}, mock, &failingCloseLogger{closeErr: err2})

	err := multi.Close()
	if !errors.Is(err, err1) {
		t.Errorf("expected first error %v, got %v", err1, err)
	}
	if !mock.CloseCalled {
		t.Error("expected mock logger to be closed even after first error")
	}
}

func TestMultiLogger_EmptyLoggers(t *testing.T) {
	multi := NewMultiLogger()
	multi.Info("test")
	if err := multi.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}
