package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DataDir resolves the data directory. SAMSCHED_DATA_DIR wins; otherwise
// <user config dir>/SAM is used.
func DataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, DefaultDataDirName), nil
}

// DatabasePath resolves the achievement database path for dataDir.
func DatabasePath(dataDir string) string {
	if p := os.Getenv(DatabaseEnv); p != "" {
		return p
	}
	return filepath.Join(dataDir, DefaultDatabaseName)
}

// PollInterval returns the interval from SAMSCHED_POLL_INTERVAL, falling back
// to DefaultPollInterval when unset, unparsable or not positive.
func PollInterval() time.Duration {
	v := os.Getenv(PollIntervalEnv)
	if v == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// DebugEnabled reports whether SAMSCHED_DEBUG is set to a truthy value.
func DebugEnabled() bool {
	switch os.Getenv(DebugEnv) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}
