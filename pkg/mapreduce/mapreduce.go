// Package mapreduce folds scraped records into snapshots and snapshots into
// one merged view of the guild.
package mapreduce

import "github.com/dtnitsch/levelwatch/models"

// Map builds a snapshot from the records of a single page. A name listed
// twice keeps its highest level.
func Map(records []models.Record) models.Snapshot {
	snap := make(models.Snapshot, len(records))
	for _, rec := range records {
		if cur, ok := snap[rec.Name]; !ok || rec.Level > cur {
			snap[rec.Name] = rec.Level
		}
	}
	return snap
}

// Reduce merges per-source snapshots into one. Each name maps to the highest
// level any source reported; names without a positive level are dropped.
// The result does not depend on the order of the inputs.
func Reduce(intermediate []models.Snapshot) models.Snapshot {
	finalResults := make(models.Snapshot)

	for _, snap := range intermediate {
		for name, level := range snap {
			if level <= 0 {
				continue
			}
			if level > finalResults[name] {
				finalResults[name] = level
			}
		}
	}

	return finalResults
}
