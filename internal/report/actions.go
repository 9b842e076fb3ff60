package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/levelwatch/internal/config"
	"github.com/dtnitsch/levelwatch/pkg/db"
	"github.com/dtnitsch/levelwatch/pkg/roster"
	"github.com/dtnitsch/levelwatch/pkg/storage"
	"github.com/urfave/cli/v2"
)

func StatusAction(c *cli.Context) error {
	cfg, _, err := config.FromContext(c)
	if err != nil {
		return err
	}
	return WriteYAML(c.App.Writer, BuildStatus(cfg, &storage.Storage{}, time.Now()))
}

func MembersAction(c *cli.Context) error {
	cfg, _, err := config.FromContext(c)
	if err != nil {
		return err
	}

	r, err := roster.Load(&storage.Storage{}, cfg.MembersFile)
	if err != nil {
		return err
	}
	if r.Len() == 0 {
		fmt.Fprintln(c.App.Writer, "No members recorded")
		return nil
	}
	for _, name := range r.Names() {
		fmt.Fprintln(c.App.Writer, name)
	}
	if !c.Bool("quiet") {
		fmt.Fprintf(c.App.ErrWriter, "\nTotal: %d members\n", r.Len())
	}
	return nil
}

func HistoryAction(c *cli.Context) error {
	cfg, _, err := config.FromContext(c)
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return errors.New("run history is disabled (HISTORY_DB is empty)")
	}

	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	if c.Bool("runs") {
		runs, err := database.ListRuns(limit)
		if err != nil {
			return err
		}
		PrintRuns(c.App.Writer, runs)
		return nil
	}

	records, err := database.RecentLevelUps(c.Args().First(), limit)
	if err != nil {
		return err
	}
	PrintLevelUps(c.App.Writer, records)
	return nil
}
