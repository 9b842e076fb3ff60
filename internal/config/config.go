// Package config builds the run configuration from the environment and the
// command line.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // reference timezone must load in minimal containers

	"github.com/caarlos0/env/v11"
	"github.com/dtnitsch/levelwatch/models"
)

// Env mirrors the supported environment variables.
type Env struct {
	GuildName         string        `env:"GUILD_NAME"          envDefault:"beQuiet"`
	RankingURL        string        `env:"RANKING_URL"         envDefault:"https://pr-underworld.com/website/ranking/"`
	HomeURL           string        `env:"HOME_URL"            envDefault:"https://pr-underworld.com/website/"`
	ZoneLabel         string        `env:"ZONE_LABEL"          envDefault:"Netherworld"`
	StripLevelSuffix  bool          `env:"STRIP_LEVEL_SUFFIX"  envDefault:"false"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"     envDefault:"20s"`
	UserAgent         string        `env:"USER_AGENT"          envDefault:"levelwatch guild level tracker"`
	PostFirstBaseline bool          `env:"POST_FIRST_BASELINE" envDefault:"false"`
	Timezone          string        `env:"TIMEZONE"            envDefault:"Europe/Berlin"`
	WebhookURL        string        `env:"DISCORD_WEBHOOK_URL"`
	StateFile         string        `env:"STATE_FILE"          envDefault:"state.json"`
	MembersFile       string        `env:"MEMBERS_FILE"        envDefault:"members.txt"`
	FlavorFile        string        `env:"FLAVOR_FILE"         envDefault:"flavor.yaml"`
	HistoryDB         string        `env:"HISTORY_DB"          envDefault:"levelwatch.db"`
	CacheDir          string        `env:"CACHE_DIR"`
	CacheTTL          time.Duration `env:"CACHE_TTL"           envDefault:"0s"`
	PruneAfterDays    int           `env:"PRUNE_AFTER_DAYS"    envDefault:"0"`
	LogLevel          string        `env:"LOG_LEVEL"           envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT"          envDefault:"json"`
}

// LoadEnv parses the environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return e, nil
}

// Config validates e and converts it to the run configuration.
func (e Env) Config() (models.Config, error) {
	var errs []error

	guild := strings.TrimSpace(e.GuildName)
	if guild == "" {
		errs = append(errs, errors.New("GUILD_NAME must not be empty"))
	}

	var sources []models.Source
	for _, s := range []struct{ name, url string }{
		{"ranking", e.RankingURL},
		{"home", e.HomeURL},
	} {
		if strings.TrimSpace(s.url) == "" {
			continue
		}
		if err := validateURL(s.url); err != nil {
			errs = append(errs, fmt.Errorf("%s url: %w", s.name, err))
			continue
		}
		sources = append(sources, models.Source{
			Name:             s.name,
			URL:              s.url,
			Label:            e.ZoneLabel,
			StripLevelSuffix: e.StripLevelSuffix,
		})
	}
	if len(sources) == 0 && len(errs) == 0 {
		errs = append(errs, errors.New("at least one of RANKING_URL and HOME_URL is required"))
	}

	if e.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", e.RequestTimeout))
	}
	if e.PruneAfterDays < 0 {
		errs = append(errs, fmt.Errorf("PRUNE_AFTER_DAYS must not be negative, got %d", e.PruneAfterDays))
	}
	if e.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must not be negative, got %s", e.CacheTTL))
	}
	if e.WebhookURL != "" {
		if err := validateURL(e.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("DISCORD_WEBHOOK_URL: %w", err))
		}
	}

	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return models.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return models.Config{
		GuildName:         guild,
		Sources:           sources,
		RequestTimeout:    e.RequestTimeout,
		UserAgent:         e.UserAgent,
		PostFirstBaseline: e.PostFirstBaseline,
		Location:          loc,
		WebhookURL:        e.WebhookURL,
		StateFile:         e.StateFile,
		MembersFile:       e.MembersFile,
		FlavorFile:        e.FlavorFile,
		HistoryDB:         e.HistoryDB,
		CacheDir:          e.CacheDir,
		CacheTTL:          e.CacheTTL,
		PruneAfterDays:    e.PruneAfterDays,
	}, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
