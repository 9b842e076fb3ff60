package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/levelwatch/pkg/db"
)

// PrintRuns renders the run list as a table.
func PrintRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return
	}

	fmt.Fprintf(w, "%-6s %-20s %-12s %-8s %-6s %-9s %-7s %s\n",
		"ID", "Started", "Date", "Status", "Names", "Digest", "New", "Error")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		digest := "-"
		switch {
		case r.DigestPosted:
			digest = "posted"
		case r.Bootstrapped:
			digest = "baseline"
		}
		fmt.Fprintf(w, "%-6d %-20s %-12s %-8s %-6d %-9s %-7d %s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.RunDate,
			r.Status,
			r.NamesSeen,
			digest,
			r.NewMembers,
			r.ErrorMessage,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
}

// PrintLevelUps renders posted level-ups as a table.
func PrintLevelUps(w io.Writer, records []db.LevelUpRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No level-ups recorded")
		return
	}

	fmt.Fprintf(w, "%-12s %-24s %6s %6s %6s\n", "Date", "Name", "Old", "New", "Gain")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range records {
		fmt.Fprintf(w, "%-12s %-24s %6d %6d %+6d\n", r.DigestDate, r.Name, r.Old, r.New, r.Gain())
	}
}
