package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samsched/samsched/cmd/common"
	"github.com/samsched/samsched/internal/achstore"
	"github.com/samsched/samsched/internal/bulk"
	"github.com/samsched/samsched/internal/scheduler"
	"github.com/samsched/samsched/pkg/logger"
	"github.com/urfave/cli"
)

// trackAll registers every achievement of the store with the scheduler.
func trackAll(s *scheduler.Scheduler, st *achstore.Store) (int, error) {
	list, err := st.List()
	if err != nil {
		return 0, err
	}
	for _, a := range list {
		if err := s.Track(a.ID, a.Name, a.Protected); err != nil {
			return 0, err
		}
	}
	return len(list), nil
}

// armPlan schedules the selected candidates according to the plan flags.
func armPlan(s *scheduler.Scheduler, now time.Time) ([]bulk.Slot, time.Time, error) {
	mode, err := bulk.ParseMode(planMode)
	if err != nil {
		return nil, time.Time{}, err
	}
	start, warning, err := resolveStart(startAt, startIn, startCron, now)
	if err != nil {
		return nil, time.Time{}, err
	}
	if warning != "" {
		fmt.Println(warning)
	}
	params, err := planParams(mode, start, s.AutoDuration)
	if err != nil {
		return nil, time.Time{}, err
	}
	ids := selectCandidates(s.Items(), splitIDs(onlyIDs), keepOrder)
	slots, err := s.ScheduleBulk(ids, mode, params)
	if err != nil {
		return nil, time.Time{}, err
	}
	return slots, start, nil
}

func plan(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	st, err := openStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "plan", "open_store", err)
		return nil
	}
	defer st.Close()

	persist, err := openPersistence(logger.NewNopLogger())
	if err != nil {
		common.PrintRuntimeErr(ctx, "plan", "data_dir", err)
		return nil
	}
	s, err := scheduler.New(scheduler.Config{
		SessionKey:  gameID,
		Store:       st,
		Persistence: persist,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "plan", "new_scheduler", err)
		return nil
	}
	s.Resume()
	if _, err := trackAll(s, st); err != nil {
		common.PrintRuntimeErr(ctx, "plan", "track", err)
		return nil
	}
	slots, start, err := armPlan(s, time.Now())
	if err != nil {
		common.PrintRuntimeErr(ctx, "plan", "schedule", err)
		return nil
	}
	printPlan(s, slots, start)
	return nil
}

func printPlan(s *scheduler.Scheduler, slots []bulk.Slot, start time.Time) {
	txt := "Planned unlocks:"
	txt += "\n\n------------------------------------------------------------------------"
	txt += "\n|Num|" + common.Beaut("Achievement", 26) + "| Rarity |  Unlock at  |    Share   |"
	txt += "\n|---|--------------------------|--------|-------------|------------|"
	for i, slot := range slots {
		it, _ := s.Item(slot.ID)
		txt += fmt.Sprintf("\n|%3d|%s|%s|%s|%s|",
			i+1,
			common.Beaut(clip(slot.ID, 26), 26),
			common.Beaut(formatRarity(it.RarityPercent), 8),
			common.Beaut(slot.At.Format("Jan 2 15:04"), 13),
			common.Beaut(slot.Allocated.Round(time.Second).String(), 12),
		)
	}
	txt += "\n------------------------------------------------------------------------"
	sum := bulk.Summarize(slots, start)
	txt += fmt.Sprintf("\n\n%d unlock(s) from %s to %s, spanning %s (last unlock %s).",
		sum.Count,
		sum.First.Format("15:04"),
		sum.Last.Format("15:04"),
		sum.Span.Round(time.Second),
		humanize.Time(sum.Last),
	)
	fmt.Println(txt)
}

func formatRarity(p float64) string {
	if p < 0 {
		return "?"
	}
	return humanize.FtoaWithDigits(p, 2) + "%"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
