package ledger

import (
	"sort"
	"time"

	"github.com/dtnitsch/levelwatch/models"
)

// Ledger applies snapshots to the persisted state. The digest boundary is the
// calendar date in loc, not a 24 hour cooldown.
type Ledger struct {
	loc               *time.Location
	postFirstBaseline bool
	pruneAfterDays    int
	now               func() time.Time
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithPostFirstBaseline makes the very first run post its baseline as a digest
// instead of suppressing it.
func WithPostFirstBaseline(enabled bool) Option {
	return func(l *Ledger) { l.postFirstBaseline = enabled }
}

// WithPruneAfterDays drops names that have not been seen for more than days.
// Zero disables pruning.
func WithPruneAfterDays(days int) Option {
	return func(l *Ledger) { l.pruneAfterDays = days }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(loc *time.Location, opts ...Option) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	l := &Ledger{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current date in the reference timezone.
func (l *Ledger) Today() string {
	return l.now().In(l.loc).Format(DateLayout)
}

// Outcome is the result of applying one snapshot.
type Outcome struct {
	// State is the state to commit.
	State State
	Today string
	// Bootstrapped is set on the run that initialised the baseline.
	Bootstrapped bool
	// DigestDue is set when no digest had been posted today; the baseline
	// has been rolled forward in State.
	DigestDue bool
	// Events are the level-ups to post. Only set when DigestDue.
	Events []models.LevelUp
	// Pruned lists names dropped for being unseen too long.
	Pruned []string
}

// Advance applies the current snapshot to prev and decides whether a digest
// is due. prev is not modified.
//
// Sending the digest is the caller's job. Whatever the delivery outcome, the
// returned State must be committed as is: a failed send is never retried, so a
// digest is missed rather than duplicated.
func (l *Ledger) Advance(prev State, current models.Snapshot) Outcome {
	today := l.Today()
	st := prev.Clone()
	out := Outcome{Today: today}

	for name, level := range current {
		if cur, ok := st.Levels[name]; !ok || level > cur {
			st.Levels[name] = level
		}
		st.LastSeen[name] = today
	}

	if l.pruneAfterDays > 0 {
		out.Pruned = l.prune(&st, today)
	}

	if !st.Initialized() {
		if len(st.Levels) == 0 {
			// Nothing observed yet; a baseline locked in now would be empty.
			out.State = st
			return out
		}
		out.Bootstrapped = true
		if l.postFirstBaseline {
			st.Baseline = map[string]int{}
			st.LastPostDate = ""
		} else {
			st.Baseline = copyMap(st.Levels)
			st.LastPostDate = today
		}
	}

	if st.LastPostDate != today {
		out.DigestDue = true
		out.Events = Gains(st.Levels, st.Baseline)
		st.Baseline = copyMap(st.Levels)
		st.LastPostDate = today
	}

	out.State = st
	return out
}

// prune removes names whose last sighting is more than pruneAfterDays before
// today. Names without a sighting start their clock today.
func (l *Ledger) prune(st *State, today string) []string {
	now, err := time.ParseInLocation(DateLayout, today, l.loc)
	if err != nil {
		return nil
	}
	cutoff := now.AddDate(0, 0, -l.pruneAfterDays)

	var pruned []string
	for name := range st.Levels {
		seen, ok := st.LastSeen[name]
		if !ok {
			st.LastSeen[name] = today
			continue
		}
		seenAt, err := time.ParseInLocation(DateLayout, seen, l.loc)
		if err != nil {
			st.LastSeen[name] = today
			continue
		}
		if seenAt.Before(cutoff) {
			pruned = append(pruned, name)
		}
	}
	sort.Strings(pruned)
	for _, name := range pruned {
		delete(st.Levels, name)
		delete(st.LastSeen, name)
		if st.Baseline != nil {
			delete(st.Baseline, name)
		}
	}
	return pruned
}
