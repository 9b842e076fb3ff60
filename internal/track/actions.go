package track

import (
	"fmt"

	"github.com/dtnitsch/levelwatch/internal/config"
	"github.com/dtnitsch/levelwatch/pkg/db"
	"github.com/urfave/cli/v2"
)

func RunAction(c *cli.Context) error {
	cfg, logger, err := config.FromContext(c)
	if err != nil {
		return err
	}

	var opts []Option
	if cfg.HistoryDB != "" && !cfg.DryRun {
		database, err := db.Open(cfg.HistoryDB)
		if err != nil {
			logger.Warn("History database unavailable; continuing without it", "path", cfg.HistoryDB, "error", err)
		} else {
			defer database.Close()
			opts = append(opts, WithHistory(database))
		}
	}

	runner, err := NewRunner(cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to set up run: %w", err)
	}

	report, err := runner.Run(c.Context)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	logger.Info("Run complete",
		"date", report.Today,
		"names", report.NamesSeen,
		"digest_due", report.DigestDue,
		"digest_sent", report.DigestSent,
		"level_ups", len(report.Events),
		"new_members", len(report.NewMembers),
	)
	return nil
}
