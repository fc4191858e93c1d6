package polling

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Poll is a timed single-choice vote scoped to one guild channel.
//
// Counts maps a member to the option they last chose. Results stays zeroed
// until the poll is concluded, at which point Counts is folded into it once.
type Poll struct {
	ID          string
	GuildId     string
	ChannelId   string
	MessageId   string
	Title       string
	Description string
	Options     []string
	Conclusion  time.Time
	Closed      bool
	Counts      map[string]string
	Results     map[string]int
	CreatedAt   time.Time
}

// Published reports whether the poll has a rendered message to update.
func (p *Poll) Published() bool {
	return p.MessageId != ""
}

func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	c := *p
	c.Options = append([]string(nil), p.Options...)
	c.Counts = make(map[string]string, len(p.Counts))
	for k, v := range p.Counts {
		c.Counts[k] = v
	}
	c.Results = make(map[string]int, len(p.Results))
	for k, v := range p.Results {
		c.Results[k] = v
	}
	return &c
}

// ParseOptions splits raw option text on line breaks, trims each line, drops
// blanks and removes duplicates keeping the first occurrence.
func ParseOptions(raw string) []string {
	lines := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	lines = lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
	return lo.Uniq(lines)
}
