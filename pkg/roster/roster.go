// Package roster keeps the durable list of every guild member ever seen.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/dtnitsch/levelwatch/models"
	"github.com/dtnitsch/levelwatch/pkg/storage"
	"golang.org/x/text/cases"
)

// Roster is an immutable set of names. Names keep their original casing but
// are compared case-insensitively.
type Roster struct {
	names []string
	index map[string]struct{} // folded name
}

// New builds a roster from names, dropping blanks and case-insensitive
// duplicates. The first spelling in sorted order wins.
func New(names ...string) Roster {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	sort.Slice(cleaned, func(i, j int) bool {
		fi, fj := fold(cleaned[i]), fold(cleaned[j])
		if fi != fj {
			return fi < fj
		}
		return cleaned[i] < cleaned[j]
	})

	r := Roster{index: make(map[string]struct{}, len(cleaned))}
	for _, n := range cleaned {
		key := fold(n)
		if _, dup := r.index[key]; dup {
			continue
		}
		r.index[key] = struct{}{}
		r.names = append(r.names, n)
	}
	return r
}

// Contains reports whether name is in the roster under any casing.
func (r Roster) Contains(name string) bool {
	_, ok := r.index[fold(name)]
	return ok
}

// Names returns the names sorted case-insensitively.
func (r Roster) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Roster) Len() int {
	return len(r.names)
}

// Track compares the roster with the names of the current snapshot. It returns
// the updated roster and the names seen for the first time, sorted. A name
// already present under a different casing is neither added nor reported.
func Track(r Roster, current models.Snapshot) (Roster, []string) {
	var added []string
	seen := make(map[string]struct{})
	for _, name := range current.Names() {
		key := fold(name)
		if r.Contains(name) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		added = append(added, name)
	}
	if len(added) == 0 {
		return r, nil
	}
	return New(append(r.Names(), added...)...), added
}

// Encode renders the roster file: one name per line, trailing newline.
func (r Roster) Encode() []byte {
	var b bytes.Buffer
	for _, n := range r.names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// Decode parses a roster file, ignoring blank lines. Lines have no length
// limit.
func Decode(data []byte) Roster {
	return New(strings.Split(string(data), "\n")...)
}

// Load reads the roster file. A missing file is an empty roster.
func Load(s *storage.Storage, path string) (Roster, error) {
	data, err := s.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return New(), fmt.Errorf("failed to load roster: %w", err)
	}
	return Decode(data), nil
}

// Save writes the roster file atomically.
func Save(s *storage.Storage, path string, r Roster) error {
	if err := s.SaveFile(path, r.Encode()); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}
