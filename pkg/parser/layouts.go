package parser

// Layout is one known arrangement of a ranking row. Accept decides by cell
// count whether the layout applies; Pick returns the raw name, level and guild
// texts. strip tells Pick that level cells may carry a suffix ("42 Lv").
// Layouts are tried in the order of Layouts.
type Layout struct {
	Name   string
	Accept func(n int) bool
	Pick   func(cells []string, strip bool) (name, level, guild string)
}

// Layouts is the fallback chain, most specific first.
var Layouts = []Layout{
	{
		// [online, name, level, job, exp%, guild, ...]
		Name:   "online",
		Accept: func(n int) bool { return n >= 6 },
		Pick: func(cells []string, _ bool) (string, string, string) {
			return cells[1], cells[2], cells[5]
		},
	},
	{
		// [name, level, job, exp%, guild]
		Name:   "plain",
		Accept: func(n int) bool { return n >= 5 },
		Pick: func(cells []string, _ bool) (string, string, string) {
			return cells[0], cells[1], cells[4]
		},
	},
	{
		// The home page: [name, level, job, guild].
		Name:   "home",
		Accept: func(n int) bool { return n == 4 },
		Pick: func(cells []string, _ bool) (string, string, string) {
			return cells[0], cells[1], cells[3]
		},
	},
	{
		// Anything shorter.
		Name:   "degenerate",
		Accept: func(n int) bool { return n > 0 },
		Pick:   pickDegenerate,
	},
}

// pickDegenerate treats the first numeric cell as the level, the cell before
// it as the name and the last cell as the guild. With strip set, a cell that
// starts with a digit ("42 Lv") also counts as numeric.
func pickDegenerate(cells []string, strip bool) (string, string, string) {
	for i, cell := range cells {
		if !isDigits(cell) && !(strip && startsWithDigit(cell)) {
			continue
		}
		name := ""
		if i > 0 {
			name = cells[i-1]
		}
		return name, cell, cells[len(cells)-1]
	}
	return "", "", ""
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
