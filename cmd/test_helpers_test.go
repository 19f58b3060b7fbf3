package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// captureOutput runs f with stdout and stderr redirected to pipes and
// returns what was written.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	var bufOut, bufErr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); io.Copy(&bufOut, rOut) }()
	go func() { defer wg.Done(); io.Copy(&bufErr, rErr) }()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	wg.Wait()
	rOut.Close()
	rErr.Close()
	return bufOut.String(), bufErr.String()
}

const fixtureJSON = `[
	{"id": "ACH_WIN", "name": "Win a match", "global_percent": 85},
	{"id": "ACH_TRAVEL", "name": "Travel far", "global_percent": 40.5},
	{"id": "ACH_RARE", "name": "Flawless", "global_percent": 0.1},
	{"id": "ACH_SECRET", "name": "Secret", "protected": true},
	{"id": "ACH_DONE", "name": "Tutorial", "achieved": true, "unlock_time": 1700000000, "global_percent": 97}
]`

// testEnv points the data dir at a temp directory and imports the fixture
// achievements for game 480. It returns the data dir.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SAMSCHED_DATA_DIR", dir)
	t.Setenv("SAMSCHED_DB", "")
	t.Setenv("SAMSCHED_DEBUG", "")
	file := filepath.Join(dir, "achievements.json")
	if err := os.WriteFile(file, []byte(fixtureJSON), 0644); err != nil {
		t.Fatal(err)
	}
	out, _ := captureOutput(func() {
		if err := Execute([]string{"samsched", "import", "--game", "480", file}, BuildArgs{}); err != nil {
			t.Errorf("import: %v", err)
		}
	})
	if !bytes.Contains([]byte(out), []byte("Imported 5 achievement(s)")) {
		t.Fatalf("unexpected import output: %q", out)
	}
	return dir
}
