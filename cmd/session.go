package cmd

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/samsched/samsched/common"
	"github.com/samsched/samsched/internal/achstore"
	"github.com/samsched/samsched/internal/countdown"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

var errMissingGame = errors.New("error: --game is required")

var (
	gameID  string
	dbPath  string
	dataDir string
	verbose bool

	gameFlag = cli.StringFlag{
		Name:        "game, g",
		Usage:       "game id the achievements belong to",
		Destination: &gameID,
	}
	dataDirFlag = cli.StringFlag{
		Name:        "data-dir",
		Usage:       "directory for countdown files and session logs",
		EnvVar:      common.DataDirEnv,
		Destination: &dataDir,
	}
	storeFlags = []cli.Flag{
		gameFlag,
		cli.StringFlag{
			Name:        "db",
			Usage:       "path of the achievement database (default: <data-dir>/achievements.db)",
			EnvVar:      common.DatabaseEnv,
			Destination: &dbPath,
		},
		dataDirFlag,
	}
	pollEvery time.Duration
	pollFlag  = cli.DurationFlag{
		Name:        "poll",
		Usage:       "how often the schedule is checked",
		Value:       DEF_POLL,
		EnvVar:      common.PollIntervalEnv,
		Destination: &pollEvery,
	}
	verboseFlag = cli.BoolFlag{
		Name:        "verbose, V",
		Usage:       "print every scheduling event to the console",
		Destination: &verbose,
	}
)

// resolveDataDir returns --data-dir, falling back to the environment and
// then to the per-user config directory.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	return common.DataDir()
}

// resolvePoll returns --poll, falling back to SAMSCHED_POLL_INTERVAL parsing
// rules when the flag holds a non-positive value.
func resolvePoll() time.Duration {
	if pollEvery > 0 {
		return pollEvery
	}
	return common.PollInterval()
}

func openStore() (*achstore.Store, error) {
	if gameID == "" {
		return nil, errMissingGame
	}
	path := dbPath
	if path == "" {
		dir, err := resolveDataDir()
		if err != nil {
			return nil, err
		}
		path = common.DatabasePath(dir)
	}
	return achstore.Open(path, gameID)
}

func openPersistence(l logger.Logger) (*countdown.Persistence, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	return countdown.NewPersistence(afero.NewOsFs(), dir, nil, l), nil
}

// newSessionLogger builds the logger of a session: console output (info
// lines only with --verbose or SAMSCHED_DEBUG), the session log file under
// the data dir and the platform system log where available. Console
// output goes to stderr so it does not interleave with the progress bars
// on stdout.
func newSessionLogger() logger.Logger {
	var console logger.Logger = logger.NewStandardLogger(log.New(os.Stderr, "samsched: ", log.LstdFlags))
	if !verbose && !common.DebugEnabled() {
		console = logger.NewQuietLogger(console)
	}
	loggers := []logger.Logger{console}
	if dir, err := resolveDataDir(); err == nil {
		if fl, err := logger.NewFileLogger(filepath.Join(dir, common.SessionLogName)); err == nil {
			loggers = append(loggers, fl)
		} else {
			console.Warning("session log unavailable: %v", err)
		}
	}
	if sl := systemLogger(); sl != nil {
		loggers = append(loggers, sl)
	}
	return logger.NewMultiLogger(loggers...)
}
