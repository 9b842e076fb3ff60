package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/urfave/cli/v2"
)

// FromContext loads the environment and applies the command line flags on top.
// It returns the configuration together with the logger every action uses.
func FromContext(c *cli.Context) (models.Config, *slog.Logger, error) {
	e, err := LoadEnv()
	if err != nil {
		return models.Config{}, nil, err
	}

	logger, err := NewLogger(os.Stderr, e.LogLevel, e.LogFormat, c.Bool("quiet"))
	if err != nil {
		return models.Config{}, nil, err
	}

	if c.IsSet("post-first-baseline") {
		e.PostFirstBaseline = c.Bool("post-first-baseline")
	}
	if c.IsSet("state-file") {
		e.StateFile = c.String("state-file")
	}
	if c.IsSet("members-file") {
		e.MembersFile = c.String("members-file")
	}
	if c.IsSet("history-db") {
		e.HistoryDB = c.String("history-db")
	}

	cfg, err := e.Config()
	if err != nil {
		return models.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.DryRun = c.Bool("dry-run")
	return cfg, logger, nil
}
