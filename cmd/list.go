package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samsched/samsched/cmd/common"
	"github.com/samsched/samsched/internal/achstore"
	"github.com/samsched/samsched/internal/bulk"
	"github.com/urfave/cli"
)

var (
	showUnlocked bool

	lsFlags = append([]cli.Flag{
		cli.BoolTFlag{
			Name:        "show-unlocked, u",
			Usage:       "include achievements that are already unlocked (default: true)",
			Destination: &showUnlocked,
		},
	}, storeFlags...)
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	st, err := openStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "open_store", err)
		return nil
	}
	defer st.Close()

	items, err := st.List()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(items) == 0 {
		fmt.Printf("samsched: no achievements found for game %s\n", gameID)
		return nil
	}
	fmt.Println(renderList(sortAchievements(items), showUnlocked))
	return nil
}

// sortAchievements orders achievements most common first, unknown rarity last.
func sortAchievements(items []achstore.Achievement) []achstore.Achievement {
	byID := make(map[string]achstore.Achievement, len(items))
	cands := make([]bulk.CandidateItem, len(items))
	for i, a := range items {
		byID[a.ID] = a
		pct := -1.0
		if a.GlobalPercent != nil {
			pct = *a.GlobalPercent
		}
		cands[i] = bulk.CandidateItem{ID: a.ID, RarityPercent: pct}
	}
	bulk.SortByRarity(cands)
	out := make([]achstore.Achievement, len(cands))
	for i, c := range cands {
		out[i] = byID[c.ID]
	}
	return out
}

func renderList(items []achstore.Achievement, withUnlocked bool) string {
	txt := "Here are your achievements:"
	txt += "\n\n---------------------------------------------------------------------"
	txt += "\n|Num|" + common.Beaut("Achievement", 26) + "| Rarity |          Status          |"
	txt += "\n|---|--------------------------|--------|--------------------------|"
	var n int
	for _, a := range items {
		if a.Achieved && !withUnlocked {
			continue
		}
		n++
		pct := -1.0
		if a.GlobalPercent != nil {
			pct = *a.GlobalPercent
		}
		txt += fmt.Sprintf("\n|%3d|%s|%s|%s|",
			n,
			common.Beaut(clip(a.ID, 26), 26),
			common.Beaut(formatRarity(pct), 8),
			common.Beaut(achievementStatus(a), 26),
		)
	}
	txt += "\n---------------------------------------------------------------------"
	return txt
}

func achievementStatus(a achstore.Achievement) string {
	switch {
	case a.Achieved && a.UnlockTime > 0:
		return "unlocked " + humanize.Time(time.Unix(a.UnlockTime, 0))
	case a.Achieved:
		return "unlocked"
	case a.Protected:
		return "protected"
	default:
		return "locked"
	}
}
