// Package notify formats digests and delivers them to the chat channel.
package notify

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dtnitsch/levelwatch/models"
)

// DefaultFlavor is used when no flavor list is available.
const DefaultFlavor = "The grind never sleeps."

// Composer renders human-readable messages for one guild.
type Composer struct {
	guild  string
	flavor []string
	pick   func(n int) int
}

// NewComposer returns a composer that picks flavor lines uniformly at random.
func NewComposer(guild string, flavor []string) *Composer {
	return &Composer{guild: guild, flavor: flavor, pick: rand.Intn}
}

// Flavor returns one flavor line, or DefaultFlavor when the list is empty.
func (c *Composer) Flavor() string {
	if len(c.flavor) == 0 {
		return DefaultFlavor
	}
	return c.flavor[c.pick(len(c.flavor))]
}

// Digest renders the daily message. Events are expected in presentation order.
func (c *Composer) Digest(date string, events []models.LevelUp) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s level-ups — %s**\n", c.guild, date)
	b.WriteString(c.Flavor())
	for _, e := range events {
		b.WriteByte('\n')
		if e.NewlyRecorded() {
			fmt.Fprintf(&b, "%s — newly recorded: %d", e.Name, e.New)
		} else {
			fmt.Fprintf(&b, "%s — %d → %d", e.Name, e.Old, e.New)
		}
	}
	return b.String()
}

// NewMembers renders the announcement for first-time sightings.
func (c *Composer) NewMembers(names []string) string {
	return fmt.Sprintf("New members in %s: %s", c.guild, strings.Join(names, ", "))
}
