package track

import (
	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/db"
	"github.com/dtnitsch/levelwatch/pkg/scraper"
)

// History failures are logged and never fail the run.

func (r *Runner) historyEnabled() bool {
	return r.history != nil && !r.cfg.DryRun
}

func (r *Runner) beginRun(today string) int64 {
	if !r.historyEnabled() {
		return 0
	}
	id, err := r.history.BeginRun(r.now(), today)
	if err != nil {
		r.logger.Warn("Failed to record run", "error", err)
		return 0
	}
	return id
}

func (r *Runner) recordSources(runID int64, results []scraper.Result) {
	if runID == 0 {
		return
	}
	for _, res := range results {
		rec := db.SourceResult{
			Source:  res.Source.Name,
			URL:     res.Source.URL,
			Success: !res.Failed(),
			Records: res.Records,
			Members: len(res.Snapshot),
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		if err := r.history.RecordSource(runID, rec); err != nil {
			r.logger.Warn("Failed to record source result", "source", res.Source.Name, "error", err)
		}
	}
}

func (r *Runner) recordDigest(runID int64, date string, events []models.LevelUp) {
	if runID == 0 {
		return
	}
	if err := r.history.RecordDigest(runID, date, events); err != nil {
		r.logger.Warn("Failed to record digest", "error", err)
	}
}

func (r *Runner) finishRun(runID int64, report Report, runErr error) {
	if runID == 0 {
		return
	}
	err := r.history.FinishRun(runID, r.now(), db.RunSummary{
		NamesSeen:    report.NamesSeen,
		Bootstrapped: report.Bootstrapped,
		DigestPosted: report.DigestSent,
		NewMembers:   len(report.NewMembers),
		Err:          runErr,
	})
	if err != nil {
		r.logger.Warn("Failed to finish run record", "error", err)
	}
}
