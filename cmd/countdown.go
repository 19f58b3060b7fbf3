package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/samsched/samsched/cmd/common"
	"github.com/samsched/samsched/internal/countdown"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/urfave/cli"
)

var (
	countdownFor string

	countdownFlags    = []cli.Flag{gameFlag, dataDirFlag}
	countdownArmFlags = append([]cli.Flag{
		cli.StringFlag{
			Name:        "duration, d",
			Usage:       "time until the session is closed (e.g. 90m, 2h)",
			Destination: &countdownFor,
		},
	}, countdownFlags...)
)

// parseCountdown converts a --duration or --auto-close value to whole
// seconds. A bare number is read as minutes.
func parseCountdown(value string) (int, error) {
	if _, err := strconv.Atoi(value); err == nil {
		value += "m"
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < time.Second {
		return 0, fmt.Errorf("error: invalid countdown %q, expected a duration like 90m or 2h", value)
	}
	return int(d / time.Second), nil
}

func countdownPersistence(ctx *cli.Context) (*countdown.Persistence, bool) {
	if gameID == "" {
		_ = common.PrintErrWithCmdHelp(ctx, errMissingGame)
		return nil, false
	}
	p, err := openPersistence(logger.NewStandardLogger(log.New(os.Stderr, "samsched: ", 0)))
	if err != nil {
		common.PrintRuntimeErr(ctx, "countdown", "data_dir", err)
		return nil, false
	}
	return p, true
}

func countdownArm(ctx *cli.Context) error {
	p, ok := countdownPersistence(ctx)
	if !ok {
		return nil
	}
	secs, err := parseCountdown(countdownFor)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	st := countdown.State{TotalSeconds: secs, StartedAt: time.Now()}
	if err := p.Save(gameID, st); err != nil {
		common.PrintRuntimeErr(ctx, "countdown", "save", err)
		return nil
	}
	fmt.Printf("Auto-close armed for game %s: %s (until %s)\n",
		gameID, countdown.FormatSeconds(secs), st.Deadline().Local().Format("15:04:05"))
	return nil
}

func countdownDisarm(ctx *cli.Context) error {
	p, ok := countdownPersistence(ctx)
	if !ok {
		return nil
	}
	if err := p.Clear(gameID); err != nil {
		common.PrintRuntimeErr(ctx, "countdown", "clear", err)
		return nil
	}
	fmt.Printf("Auto-close disarmed for game %s\n", gameID)
	return nil
}

func countdownStatus(ctx *cli.Context) error {
	p, ok := countdownPersistence(ctx)
	if !ok {
		return nil
	}
	st, ok := p.Load(gameID)
	if !ok {
		fmt.Printf("No auto-close countdown for game %s\n", gameID)
		return nil
	}
	fmt.Printf("Auto-close for game %s: %s left of %s\n",
		gameID,
		countdown.FormatRemaining(st.Remaining(time.Now())),
		countdown.FormatSeconds(st.TotalSeconds),
	)
	return nil
}
