package common

import "time"

const (
	// DefaultDataDirName is the folder created under the user config dir.
	DefaultDataDirName = "SAM"

	// DefaultDatabaseName is the achievement database file name inside the data dir.
	DefaultDatabaseName = "achievements.db"

	// SessionLogName is the log file name inside the data dir.
	SessionLogName = "samsched.log"

	// EventSourceName is the Windows Event Log source.
	EventSourceName = "samsched"

	// DefaultPollInterval is the reconciliation cadence.
	DefaultPollInterval = time.Second
)
