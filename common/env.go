// Package common provides shared constants used by the samsched CLI and the
// packages it wires together.
package common

// Environment variable names for configuration.
const (
	// DataDirEnv overrides the directory holding countdown files, the session
	// log and the default achievement database.
	DataDirEnv = "SAMSCHED_DATA_DIR"

	// DatabaseEnv overrides the path of the local achievement database.
	DatabaseEnv = "SAMSCHED_DB"

	// PollIntervalEnv overrides the reconciliation poll interval (Go duration).
	PollIntervalEnv = "SAMSCHED_POLL_INTERVAL"

	// DebugEnv enables info-level console logging.
	DebugEnv = "SAMSCHED_DEBUG"
)
