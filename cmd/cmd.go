package cmd

import (
	"fmt"
	"runtime"

	"github.com/samsched/samsched/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "samsched",
		HelpName:              "samsched",
		Usage:                 "Schedule achievement unlocks over a play session.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "samsched <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "import",
				Usage:              "load achievement definitions from a JSON file",
				Action:             importAchievements,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ImportDescription,
				Flags:              storeFlags,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "display the achievements of a game",
				Action:                 list,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            ListDescription,
				UseShortOptionHandling: true,
				Flags:                  lsFlags,
			},
			{
				Name:                   "plan",
				Aliases:                []string{"p"},
				Usage:                  "preview a bulk unlock schedule",
				Action:                 plan,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            PlanDescription,
				UseShortOptionHandling: true,
				Flags:                  concatFlags(storeFlags, planFlags),
			},
			{
				Name:                   "run",
				Aliases:                []string{"r"},
				Usage:                  "host a session that unlocks on schedule",
				Action:                 run,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            RunDescription,
				UseShortOptionHandling: true,
				Flags:                  runFlags,
			},
			{
				Name:        "countdown",
				Aliases:     []string{"c"},
				Usage:       "arm, disarm or show the auto-close countdown",
				Description: CountdownDescription,
				Subcommands: []cli.Command{
					{
						Name:         "arm",
						Usage:        "start a countdown",
						Action:       countdownArm,
						OnUsageError: common.UsageErrorCallback,
						Flags:        countdownArmFlags,
					},
					{
						Name:         "disarm",
						Usage:        "cancel the countdown without closing the session",
						Action:       countdownDisarm,
						OnUsageError: common.UsageErrorCallback,
						Flags:        countdownFlags,
					},
					{
						Name:         "status",
						Usage:        "show the time left",
						Action:       countdownStatus,
						OnUsageError: common.UsageErrorCallback,
						Flags:        countdownFlags,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of samsched",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
