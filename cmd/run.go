package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/samsched/samsched/cmd/common"
	"github.com/samsched/samsched/internal/achstore"
	"github.com/samsched/samsched/internal/countdown"
	"github.com/samsched/samsched/internal/scheduler"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

var (
	autoClose  string
	noSchedule bool

	runFlags = concatFlags(storeFlags, planFlags, []cli.Flag{
		cli.StringFlag{
			Name:        "auto-close, a",
			Usage:       "close the session after this long (e.g. 90m, 2h); replaces a running countdown",
			Destination: &autoClose,
		},
		cli.BoolFlag{
			Name:        "no-schedule",
			Usage:       "only run the countdown, do not schedule any unlock",
			Destination: &noSchedule,
		},
		pollFlag,
		verboseFlag,
	})
)

func concatFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// runSummary reports how a hosted session ended.
type runSummary struct {
	RunID     string
	Reason    scheduler.StopReason
	Committed int
	Pending   int
}

// session holds everything a hosted run needs.
type session struct {
	store    *achstore.Store
	persist  *countdown.Persistence
	log      logger.Logger
	out      io.Writer
	interval time.Duration
	runID    string
}

func run(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	st, err := openStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "open_store", err)
		return nil
	}
	defer st.Close()

	l := newSessionLogger()
	defer l.Close()

	persist, err := openPersistence(l)
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "data_dir", err)
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := &session{
		store:    st,
		persist:  persist,
		log:      l,
		out:      os.Stdout,
		interval: resolvePoll(),
		runID:    uuid.NewString(),
	}
	sum, err := sess.run(sigCtx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "run", "session", err)
		return nil
	}
	fmt.Printf("Session %s ended (%s): %d unlocked, %d still scheduled\n",
		sum.RunID, sum.Reason, sum.Committed, sum.Pending)
	return nil
}

func (ss *session) run(ctx context.Context) (runSummary, error) {
	sum := runSummary{RunID: ss.runID}
	ss.log.Info("session %s started for game %s", ss.runID, gameID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		cbar           *mpb.Bar
		countdownTotal int64
	)
	s, err := scheduler.New(scheduler.Config{
		SessionKey:  gameID,
		Store:       ss.store,
		Persistence: ss.persist,
		Logger:      ss.log,
		Terminator: scheduler.TerminatorFunc(func() {
			ss.log.Info("session %s closed by auto-close", ss.runID)
			cancel()
		}),
		OnRemaining: func(rem time.Duration) {
			if cbar != nil {
				cbar.SetCurrent(countdownTotal - int64(rem/time.Second))
			}
		},
	})
	if err != nil {
		return sum, err
	}

	s.Resume()
	if autoClose != "" {
		secs, err := parseCountdown(autoClose)
		if err != nil {
			return sum, err
		}
		if err := s.ArmCountdown(secs); err != nil {
			return sum, err
		}
	}
	if _, err := trackAll(s, ss.store); err != nil {
		return sum, err
	}
	if !noSchedule {
		slots, _, err := armPlan(s, time.Now())
		switch {
		case errors.Is(err, scheduler.ErrNoCandidates):
			ss.log.Warning("nothing to schedule for game %s", gameID)
		case err != nil:
			return sum, err
		default:
			ss.log.Info("%d unlock(s) scheduled, first at %s", len(slots), slots[0].At.Format(time.RFC3339))
		}
	}

	p := mpb.NewWithContext(ctx, mpb.WithOutput(ss.out), mpb.WithWidth(60))
	if st, ok := s.Countdown(); ok {
		countdownTotal = int64(st.TotalSeconds)
	}
	ubar, bar := common.InitSessionBars(p, "", int64(s.Items().ArmedCount()), countdownTotal)
	cbar = bar
	if rem, ok := s.Remaining(); ok && cbar != nil {
		cbar.SetCurrent(countdownTotal - int64(rem/time.Second))
	}

	loop := &scheduler.Loop{
		Scheduler:    s,
		Interval:     ss.interval,
		Logger:       ss.log,
		StopWhenIdle: true,
		OnTick: func(res scheduler.TickResult, _ error) {
			sum.Committed += len(res.Committed)
			ubar.IncrBy(len(res.Committed))
			if res.Terminated && cbar != nil {
				cbar.SetCurrent(countdownTotal)
			}
		},
	}
	sum.Reason = loop.Run(ctx)
	sum.Pending = s.Items().ArmedCount()

	if !ubar.Completed() {
		ubar.Abort(false)
	}
	if cbar != nil && !cbar.Completed() {
		cbar.Abort(false)
	}
	p.Wait()
	ss.log.Info("session %s ended: %s", ss.runID, sum.Reason)
	return sum, nil
}
