package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/levelwatch/internal/report"
	"github.com/dtnitsch/levelwatch/internal/track"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "levelwatch",
		Usage: "Track a guild's character levels and post a daily level-up digest",
		Description: "Configuration comes from the environment (GUILD_NAME, RANKING_URL, HOME_URL, TIMEZONE,\n" +
			"DISCORD_WEBHOOK_URL, STATE_FILE, MEMBERS_FILE, ...). Flags override it.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print messages instead of sending them and write no state",
			},
			&cli.BoolFlag{
				Name:  "post-first-baseline",
				Usage: "post the very first baseline as a digest instead of suppressing it",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.StringFlag{
				Name:  "state-file",
				Usage: "ledger file (overrides STATE_FILE)",
			},
			&cli.StringFlag{
				Name:  "members-file",
				Usage: "roster file (overrides MEMBERS_FILE)",
			},
			&cli.StringFlag{
				Name:  "history-db",
				Usage: "SQLite run history (overrides HISTORY_DB)",
			},
		},
		Action: track.RunAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Scrape the ranking pages, update the ledger and post due messages",
				Action: track.RunAction,
			},
			{
				Name:   "status",
				Usage:  "Print the ledger state and pending level-ups as YAML",
				Action: report.StatusAction,
			},
			{
				Name:   "members",
				Usage:  "Print every member ever recorded",
				Action: report.MembersAction,
			},
			{
				Name:      "history",
				Usage:     "List posted level-ups, optionally for one character",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of rows",
					},
					&cli.BoolFlag{
						Name:  "runs",
						Usage: "list recent runs instead of level-ups",
					},
				},
				Action: report.HistoryAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
