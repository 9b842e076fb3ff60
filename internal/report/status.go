// Package report implements the read-only commands: status, members and
// history.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/ledger"
	"github.com/dtnitsch/levelwatch/pkg/roster"
	"github.com/dtnitsch/levelwatch/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Status is the ledger summary printed by the status command.
type Status struct {
	Guild         string           `yaml:"guild"`
	Today         string           `yaml:"today"`
	Timezone      string           `yaml:"timezone"`
	StateFile     string           `yaml:"state_file"`
	StateBytes    int64            `yaml:"state_bytes,omitempty"`
	StateModified string           `yaml:"state_modified,omitempty"`
	Initialized   bool             `yaml:"initialized"`
	LastPostDate  string           `yaml:"last_post_date"`
	DigestDue     bool             `yaml:"digest_due"`
	NamesTracked  int              `yaml:"names_tracked"`
	RosterSize    int              `yaml:"roster_size"`
	Announced     int              `yaml:"announced_members"`
	Pending       []models.LevelUp `yaml:"pending_level_ups"`
	Warnings      []string         `yaml:"warnings,omitempty"`
}

// BuildStatus reads the persisted state without changing it. Pending lists
// the gains the next digest would contain if it were posted now.
func BuildStatus(cfg models.Config, s *storage.Storage, now time.Time) Status {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	st := Status{
		Guild:     cfg.GuildName,
		Today:     now.In(loc).Format(ledger.DateLayout),
		Timezone:  loc.String(),
		StateFile: cfg.StateFile,
	}

	if stats, err := s.GetFileStats(cfg.StateFile); err == nil {
		st.StateBytes = stats.SizeBytes
		st.StateModified = stats.ModTime.In(loc).Format(time.RFC3339)
	}

	state, err := ledger.Load(s, cfg.StateFile)
	if err != nil {
		st.Warnings = append(st.Warnings, err.Error())
	}
	r, err := roster.Load(s, cfg.MembersFile)
	if err != nil {
		st.Warnings = append(st.Warnings, err.Error())
	}

	st.Initialized = state.Initialized()
	st.LastPostDate = state.LastPostDate
	st.NamesTracked = len(state.Levels)
	st.RosterSize = r.Len()
	st.Announced = len(state.AnnouncedMembers)
	if state.Initialized() {
		st.DigestDue = state.LastPostDate != st.Today
		st.Pending = ledger.Gains(state.Levels, state.Baseline)
	}
	if st.Pending == nil {
		st.Pending = []models.LevelUp{}
	}
	return st
}

// WriteYAML prints v as YAML.
func WriteYAML(w io.Writer, v any) error {
	yamlBytes, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}
