package models

import "sort"

// Record is one candidate row pulled out of a ranking table.
type Record struct {
	Name  string
	Level int
	Guild string
}

// Snapshot maps character name to level for the tracked guild.
// Keys are case-sensitive.
type Snapshot map[string]int

// Names returns the snapshot's keys in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
