package models

// LevelUp is a single entry of a digest: a character whose level rose
// above the daily baseline.
type LevelUp struct {
	Name string `json:"name" yaml:"name"`
	Old  int    `json:"old" yaml:"old"`
	New  int    `json:"new" yaml:"new"`
}

// Gain returns the number of levels gained since the baseline.
func (l LevelUp) Gain() int {
	return l.New - l.Old
}

// NewlyRecorded reports whether the character had no baseline entry.
func (l LevelUp) NewlyRecorded() bool {
	return l.Old == 0
}
