// Package track runs one tracking pass: scrape, merge, update the roster and
// the ledger, commit, notify.
package track

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/caching"
	"github.com/dtnitsch/levelwatch/pkg/db"
	"github.com/dtnitsch/levelwatch/pkg/fetcher"
	"github.com/dtnitsch/levelwatch/pkg/ledger"
	"github.com/dtnitsch/levelwatch/pkg/mapreduce"
	"github.com/dtnitsch/levelwatch/pkg/notify"
	"github.com/dtnitsch/levelwatch/pkg/roster"
	"github.com/dtnitsch/levelwatch/pkg/scraper"
	"github.com/dtnitsch/levelwatch/pkg/storage"
)

// ErrNoSources is returned when every source failed at the transport level.
var ErrNoSources = errors.New("no source could be fetched")

// Report summarises one run.
type Report struct {
	Today        string
	Sources      []scraper.Result
	NamesSeen    int
	Bootstrapped bool
	DigestDue    bool
	DigestSent   bool
	Events       []models.LevelUp
	NewMembers   []string
	Pruned       []string
}

type Runner struct {
	cfg      models.Config
	logger   *slog.Logger
	getter   scraper.Getter
	sink     notify.Sink
	composer *notify.Composer
	storage  *storage.Storage
	history  *db.DB
	now      func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

func WithGetter(g scraper.Getter) Option { return func(r *Runner) { r.getter = g } }

func WithSink(s notify.Sink) Option { return func(r *Runner) { r.sink = s } }

func WithComposer(c *notify.Composer) Option { return func(r *Runner) { r.composer = c } }

// WithHistory records the run in the history database.
func WithHistory(d *db.DB) Option { return func(r *Runner) { r.history = d } }

func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// NewRunner wires the default transport, sink and composer from cfg. Options
// replace any of them.
func NewRunner(cfg models.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		storage: &storage.Storage{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.getter == nil {
		f := fetcher.NewFetcher(cfg.RequestTimeout, cfg.UserAgent)
		if cfg.CacheTTL > 0 && cfg.CacheDir != "" {
			cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
			if err != nil {
				return nil, err
			}
			f = f.WithCache(cache)
		}
		r.getter = f
	}

	if r.sink == nil {
		switch {
		case cfg.DryRun:
			r.sink = notify.Writer{W: os.Stdout}
		case cfg.WebhookURL != "":
			r.sink = notify.NewDiscord(cfg.WebhookURL, cfg.RequestTimeout)
		default:
			r.sink = notify.Discard{Logger: logger}
		}
	}

	if r.composer == nil {
		r.composer = notify.NewComposer(cfg.GuildName, r.loadFlavor())
	}
	return r, nil
}

func (r *Runner) loadFlavor() []string {
	if r.cfg.FlavorFile == "" {
		return nil
	}
	lines, err := notify.LoadFlavor(r.cfg.FlavorFile)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("No flavor file; using default line", "path", r.cfg.FlavorFile)
		return nil
	}
	if err != nil {
		r.logger.Warn("Flavor file unreadable; using default line", "path", r.cfg.FlavorFile, "error", err)
		return nil
	}
	return lines
}

func (r *Runner) ledger() *ledger.Ledger {
	return ledger.New(r.cfg.Location,
		ledger.WithClock(r.now),
		ledger.WithPostFirstBaseline(r.cfg.PostFirstBaseline),
		ledger.WithPruneAfterDays(r.cfg.PruneAfterDays),
	)
}

// Run performs one tracking pass.
//
// State is committed before any message is sent. If the commit fails nothing
// is sent, and a crash during sending loses the message instead of repeating
// it on the next run.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	lg := r.ledger()
	report := Report{Today: lg.Today()}
	runID := r.beginRun(report.Today)

	prevRoster, err := roster.Load(r.storage, r.cfg.MembersFile)
	if err != nil {
		r.logger.Warn("Roster unreadable; starting empty", "path", r.cfg.MembersFile, "error", err)
	}
	if !r.storage.HasFile(r.cfg.StateFile) {
		r.logger.Info("No ledger yet; this run sets the baseline", "path", r.cfg.StateFile)
	}
	prevState, err := ledger.Load(r.storage, r.cfg.StateFile)
	if err != nil {
		r.logger.Warn("Ledger unreadable; starting from empty state", "path", r.cfg.StateFile, "error", err)
	}

	report.Sources = scraper.ScrapeAll(ctx, r.scrapers())
	r.recordSources(runID, report.Sources)
	if allTransportFailed(report.Sources) {
		err := fmt.Errorf("%w: %d source(s) tried", ErrNoSources, len(report.Sources))
		r.finishRun(runID, report, err)
		return report, err
	}

	snapshots := make([]models.Snapshot, 0, len(report.Sources))
	for _, res := range report.Sources {
		snapshots = append(snapshots, res.Snapshot)
	}
	current := mapreduce.Reduce(snapshots)
	report.NamesSeen = len(current)

	out := lg.Advance(prevState, current)
	report.Bootstrapped = out.Bootstrapped
	report.DigestDue = out.DigestDue
	report.Events = out.Events
	report.Pruned = out.Pruned
	if len(out.Pruned) > 0 {
		r.logger.Info("Pruned names not seen recently", "names", out.Pruned, "after_days", r.cfg.PruneAfterDays)
	}
	if out.Bootstrapped {
		r.logger.Info("Baseline initialised", "names", len(out.State.Baseline), "post_first_baseline", r.cfg.PostFirstBaseline)
	}

	nextRoster, added := roster.Track(prevRoster, current)
	nextState := out.State
	if len(added) > 0 {
		if prevRoster.Len() == 0 && !r.cfg.PostFirstBaseline {
			r.logger.Info("Roster seeded", "names", len(added))
		} else {
			nextState, report.NewMembers = nextState.Announce(added, out.Today)
		}
	}

	if err := r.commit(prevRoster, nextRoster, len(added) > 0, nextState); err != nil {
		r.finishRun(runID, report, err)
		return report, err
	}

	if len(report.NewMembers) > 0 {
		r.logger.Info("New members found", "names", report.NewMembers)
		if err := r.sink.Send(ctx, r.composer.NewMembers(report.NewMembers)); err != nil {
			r.logger.Error("Failed to post new members", "error", err)
		}
	}

	switch {
	case out.DigestDue && len(out.Events) > 0:
		if err := r.sink.Send(ctx, r.composer.Digest(out.Today, out.Events)); err != nil {
			r.logger.Error("Failed to post digest; not retrying", "date", out.Today, "events", len(out.Events), "error", err)
		} else {
			report.DigestSent = true
			r.recordDigest(runID, out.Today, out.Events)
		}
	case out.DigestDue:
		r.logger.Info("No level-ups today", "date", out.Today)
	default:
		r.logger.Debug("Digest already posted today", "date", out.Today)
	}

	r.finishRun(runID, report, nil)
	return report, nil
}

func (r *Runner) scrapers() []*scraper.Scraper {
	filter := scraper.NewGuildFilter(r.cfg.GuildName)
	scrapers := make([]*scraper.Scraper, 0, len(r.cfg.Sources))
	for _, src := range r.cfg.Sources {
		scrapers = append(scrapers, scraper.New(src, r.getter, filter, r.logger))
	}
	return scrapers
}

func (r *Runner) commit(prev, next roster.Roster, changed bool, st ledger.State) error {
	if r.cfg.DryRun {
		r.logger.Info("Dry run; state not written", "roster_changed", changed)
		return nil
	}
	if changed {
		if err := roster.Save(r.storage, r.cfg.MembersFile, next); err != nil {
			return err
		}
		r.logger.Debug("Roster saved", "path", r.cfg.MembersFile, "before", prev.Len(), "after", next.Len())
	}
	return ledger.Save(r.storage, r.cfg.StateFile, st)
}

func allTransportFailed(results []scraper.Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, res := range results {
		if !res.TransportFailed() {
			return false
		}
	}
	return true
}
