package cmd

import "time"

const (
	DEF_INTERVAL_MIN = 5
	DEF_MODE         = "weighted"
	DEF_POLL         = time.Second
)

const DESCRIPTION = `
samsched schedules achievement unlocks over a play session. It spreads
unlocks across a time window, weighting rare achievements with a larger
share, and can close the session automatically when a countdown runs out.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const (
	ImportDescription = `The import command loads achievement definitions from a
JSON file into the local store. Existing entries with the
same id are replaced.

Example:
        samsched import --game 480 achievements.json

`
	ListDescription = `The list command displays the achievements of a game,
most common first, with their global unlock rate and
current state.

Example:
        samsched list --game 480

`
	PlanDescription = `The plan command previews a bulk schedule without
unlocking anything. The weighted mode gives rare
achievements a larger share of the window; the
sequential mode spaces them evenly.

Example:
        samsched plan --game 480 --mode weighted --duration 120
        samsched plan --game 480 --mode sequential --interval 10 --start-in 30m

`
	RunDescription = `The run command hosts a session: it resumes or arms the
auto-close countdown, arms the bulk schedule and unlocks
each achievement when its time comes. The session ends
when the countdown expires, when everything is unlocked
(without a countdown) or on interrupt.

Example:
        samsched run --game 480 --auto-close 2h
        samsched run --game 480 --mode sequential --interval 1 --only ACH_WIN,ACH_TRAVEL

`
	CountdownDescription = `The countdown command arms, disarms or shows the
auto-close countdown of a game. An armed countdown
survives restarts and is picked up by the next run.

Example:
        samsched countdown arm --game 480 --duration 90m
        samsched countdown status --game 480
        samsched countdown disarm --game 480

`
)
