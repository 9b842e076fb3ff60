package scraper

import (
	"strings"

	"golang.org/x/text/cases"
)

// GuildFilter matches free-text guild cells against the tracked guild name.
// Matching is a case-folded substring test on whitespace-normalised text, so
// decorations like "Guild: BEQUIET #1" still match "beQuiet".
type GuildFilter struct {
	needle string
}

func NewGuildFilter(guild string) GuildFilter {
	return GuildFilter{needle: fold(guild)}
}

// Match reports whether cell names the tracked guild. An empty guild name
// matches nothing.
func (f GuildFilter) Match(cell string) bool {
	if f.needle == "" {
		return false
	}
	return strings.Contains(fold(cell), f.needle)
}

// fold allocates a new caser per call; casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
