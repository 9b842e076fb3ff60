// Package ledger holds the persisted level state and turns snapshots into
// daily level-up digests.
package ledger

import (
	"sort"

	"github.com/dtnitsch/levelwatch/models"
	"golang.org/x/text/cases"
)

// DateLayout is the calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// State is the persisted ledger. Values are treated as immutable: every
// transition returns a new State.
type State struct {
	// Levels is the highest level ever recorded per name. It never decreases
	// and names are never removed unless pruning is enabled.
	Levels map[string]int
	// Baseline is the level per name at the last digest. Nil until the ledger
	// has been initialised.
	Baseline map[string]int
	// LastPostDate is the date of the last digest, empty if none yet.
	LastPostDate string
	// AnnouncedMembers maps name to the date it was announced as new member.
	AnnouncedMembers map[string]string
	// LastSeen maps name to the last date it appeared in a snapshot.
	LastSeen map[string]string
}

// Empty returns the state of a ledger that has never run.
func Empty() State {
	return State{
		Levels:           map[string]int{},
		AnnouncedMembers: map[string]string{},
		LastSeen:         map[string]string{},
	}
}

// Initialized reports whether a baseline exists.
func (s State) Initialized() bool {
	return s.Baseline != nil
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{
		Levels:           copyMap(s.Levels),
		LastPostDate:     s.LastPostDate,
		AnnouncedMembers: copyMap(s.AnnouncedMembers),
		LastSeen:         copyMap(s.LastSeen),
	}
	if s.Baseline != nil {
		out.Baseline = copyMap(s.Baseline)
	}
	return out
}

// Announce records names as announced on date and returns the ones that had
// not been announced before under any casing.
func (s State) Announce(names []string, date string) (State, []string) {
	known := make(map[string]struct{}, len(s.AnnouncedMembers))
	for name := range s.AnnouncedMembers {
		known[fold(name)] = struct{}{}
	}

	next := s.Clone()
	var fresh []string
	for _, name := range names {
		key := fold(name)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		next.AnnouncedMembers[name] = date
		fresh = append(fresh, name)
	}
	return next, fresh
}

// Gains lists every name whose level exceeds its baseline, ordered by gain
// (descending), then new level (descending), then name (case-insensitive).
// Names missing from the baseline count as starting from zero.
func Gains(levels, baseline map[string]int) []models.LevelUp {
	var events []models.LevelUp
	for name, level := range levels {
		if old := baseline[name]; level > old {
			events = append(events, models.LevelUp{Name: name, Old: old, New: level})
		}
	}
	SortLevelUps(events)
	return events
}

// SortLevelUps orders events so the highest achievers lead.
func SortLevelUps(events []models.LevelUp) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Gain() != b.Gain() {
			return a.Gain() > b.Gain()
		}
		if a.New != b.New {
			return a.New > b.New
		}
		fa, fb := fold(a.Name), fold(b.Name)
		if fa != fb {
			return fa < fb
		}
		return a.Name < b.Name
	})
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}
