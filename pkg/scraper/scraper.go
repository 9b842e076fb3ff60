// Package scraper turns one ranking page into the guild's snapshot.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/mapreduce"
	"github.com/dtnitsch/levelwatch/pkg/parser"
)

// ErrTableNotFound is returned when a page has no table to read.
var ErrTableNotFound = errors.New("ranking table not found")

// Getter fetches and parses a page.
type Getter interface {
	GetHtml(ctx context.Context, url string) (*goquery.Document, error)
}

// Result is the outcome of scraping one source.
type Result struct {
	Source   models.Source
	Snapshot models.Snapshot
	Records  int // rows that validated, before the guild filter
	Err      error
}

// Failed reports whether the source contributed no data because of an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// TransportFailed reports whether the page could not be fetched at all, as
// opposed to fetched but unreadable.
func (r Result) TransportFailed() bool {
	return r.Err != nil && !errors.Is(r.Err, ErrTableNotFound)
}

type Scraper struct {
	source models.Source
	getter Getter
	filter GuildFilter
	logger *slog.Logger
}

func New(source models.Source, getter Getter, filter GuildFilter, logger *slog.Logger) *Scraper {
	return &Scraper{
		source: source,
		getter: getter,
		filter: filter,
		logger: logger,
	}
}

// Scrape fetches the source page and returns the guild's snapshot. Failures
// are reported in the Result with an empty snapshot; they never abort the run.
func (s *Scraper) Scrape(ctx context.Context) Result {
	result := Result{Source: s.source, Snapshot: models.Snapshot{}}

	s.logger.Debug("Fetching source", "source", s.source.Name, "url", s.source.URL)
	doc, err := s.getter.GetHtml(ctx, s.source.URL)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", s.source.Name, err)
		s.logger.Warn("Source fetch failed", "source", s.source.Name, "url", s.source.URL, "error", err)
		return result
	}

	snap, records, err := s.ScrapeDocument(doc)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", s.source.Name, err)
		s.logger.Warn("Source page unreadable", "source", s.source.Name, "label", s.source.Label, "error", err)
		return result
	}

	result.Snapshot = snap
	result.Records = records
	s.logger.Info("Source scraped", "source", s.source.Name, "records", records, "guild_members", len(snap))
	return result
}

// ScrapeDocument extracts the guild's snapshot from an already parsed page.
// It also returns how many rows validated before guild filtering.
func (s *Scraper) ScrapeDocument(doc *goquery.Document) (models.Snapshot, int, error) {
	table, ok := parser.FindTable(doc, s.source.Label)
	if !ok {
		return models.Snapshot{}, 0, ErrTableNotFound
	}

	records := parser.Extract(table, s.source.StripLevelSuffix)
	kept := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if s.filter.Match(rec.Guild) {
			kept = append(kept, rec)
		}
	}
	return mapreduce.Map(kept), len(records), nil
}
