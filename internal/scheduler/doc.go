// Package scheduler reconciles deferred achievement unlocks and the session
// auto-close countdown against wall-clock time.
//
// A Scheduler holds the in-memory schedule of one session and its countdown.
// The host calls Tick on a fixed cadence (Loop does this with a ticker);
// each Tick commits every armed item whose time has passed, in ascending
// scheduled order, and ends the session through the Terminator once the
// countdown reaches zero. Nothing fires from a timer callback: because the
// process may not have been running continuously, every decision compares
// absolute times with the current clock.
//
// The Scheduler is not safe for concurrent use. Loop is its single caller;
// hosts must serialize any other access (for example by mutating it only
// before Run starts or from OnTick).
//
// Per-item schedules are session-local and are lost on restart. Only the
// countdown is persisted, through internal/countdown.
package scheduler
