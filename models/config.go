// Package models defines data structures for configuration and tracking.
package models

import "time"

// Source is one ranking page the tracker reads.
type Source struct {
	Name  string
	URL   string
	Label string // heading text that introduces the zone's table
	// StripLevelSuffix removes non-digit decorations ("42 Lv") from the
	// level cell before it is validated.
	StripLevelSuffix bool
}

// Config holds runtime configuration for a tracking run.
// Values come from the environment and CLI flags, never from business code.
type Config struct {
	GuildName         string
	Sources           []Source
	RequestTimeout    time.Duration
	UserAgent         string
	PostFirstBaseline bool
	Location          *time.Location
	WebhookURL        string

	StateFile   string
	MembersFile string
	FlavorFile  string
	HistoryDB   string

	CacheDir string
	CacheTTL time.Duration

	PruneAfterDays int
	DryRun         bool
}
