package polls

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/polling"
)

func newPoll(options ...string) *polling.Poll {
	return &polling.Poll{
		ID:          "0b0f5f4e-5c39-4d55-8a41-2b0cfc6f4a11",
		GuildId:     "guild",
		ChannelId:   "channel",
		Title:       "Lunch",
		Description: "Where do we eat?",
		Options:     options,
		Conclusion:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Counts:      map[string]string{},
		Results:     polling.ZeroResults(options),
	}
}

func TestOptionRows(t *testing.T) {
	options := make([]string, 12)
	for k := range options {
		options[k] = fmt.Sprintf("option %d", k)
	}
	rows := optionRows(newPoll(options...))

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	sizes := []int{5, 5, 2}
	index := 0
	for k, r := range rows {
		row := r.(discordgo.ActionsRow)
		if len(row.Components) != sizes[k] {
			t.Errorf("row %d has %d buttons, want %d", k, len(row.Components), sizes[k])
		}
		for _, c := range row.Components {
			button := c.(discordgo.Button)
			if button.Label != options[index] {
				t.Errorf("button label = %q, want %q", button.Label, options[index])
			}
			if button.Style != discordgo.SecondaryButton {
				t.Errorf("button style = %v", button.Style)
			}

			id, err := api.ParseCustomId(button.CustomID)
			if err != nil {
				t.Fatal(err)
			}
			if id.Route() != "polls:select" || id.Get("poll") != "0b0f5f4e-5c39-4d55-8a41-2b0cfc6f4a11" {
				t.Errorf("button custom id = %q", button.CustomID)
			}
			if got, _ := id.GetInt("option"); got != index {
				t.Errorf("button option = %d, want %d", got, index)
			}
			if len(button.CustomID) > 100 {
				t.Errorf("custom id is %d characters long", len(button.CustomID))
			}
			index++
		}
	}
}

func TestOptionRows_OptionWithSeparators(t *testing.T) {
	rows := optionRows(newPoll("a:b?c=d&e", strings.Repeat("x", 120)))
	row := rows[0].(discordgo.ActionsRow)

	first := row.Components[0].(discordgo.Button)
	if first.Label != "a:b?c=d&e" {
		t.Errorf("label = %q", first.Label)
	}
	id, err := api.ParseCustomId(first.CustomID)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := id.GetInt("option"); got != 0 {
		t.Errorf("option = %d, want 0", got)
	}

	second := row.Components[1].(discordgo.Button)
	if n := utf8.RuneCountInString(second.Label); n != maxLabelLength {
		t.Errorf("long label has %d runes, want %d", n, maxLabelLength)
	}
}

func TestOpenMessage(t *testing.T) {
	p := newPoll("Pizza", "Sushi")
	msg := openMessage(p)

	if len(msg.Embeds) != 1 {
		t.Fatalf("got %d embeds", len(msg.Embeds))
	}
	embed := msg.Embeds[0]
	if embed.Title != "Poll: Lunch" || embed.Description != "Where do we eat?" {
		t.Errorf("embed = %q / %q", embed.Title, embed.Description)
	}
	if embed.Fields[0].Value != fmt.Sprintf("<t:%d:R>", p.Conclusion.Unix()) {
		t.Errorf("conclusion field = %q", embed.Fields[0].Value)
	}
	if len(msg.Components) != 1 {
		t.Errorf("got %d rows, want 1", len(msg.Components))
	}
}

func TestClosedEmbed(t *testing.T) {
	p := newPoll("Pizza", "Sushi", "Tacos")
	results := []polling.Result{{Option: "Sushi", Votes: 2}, {Option: "Pizza", Votes: 1}, {Option: "Tacos", Votes: 0}}

	embed := closedEmbed(p, results)
	if embed.Title != "Closed: Lunch" {
		t.Errorf("title = %q", embed.Title)
	}
	if len(embed.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(embed.Fields))
	}
	for k, r := range results {
		if embed.Fields[k].Name != r.Option || embed.Fields[k].Value != fmt.Sprint(r.Votes) {
			t.Errorf("field %d = %s: %s, want %s: %d", k, embed.Fields[k].Name, embed.Fields[k].Value, r.Option, r.Votes)
		}
	}
	if embed.Timestamp != "2024-05-01T12:00:00Z" {
		t.Errorf("timestamp = %q", embed.Timestamp)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short", input: "Pizza", limit: 10, want: "Pizza"},
		{name: "exact", input: "Pizza", limit: 5, want: "Pizza"},
		{name: "long", input: "Pizzeria", limit: 5, want: "Pizz…"},
		{name: "multibyte", input: "ÄÖÜäöü", limit: 4, want: "ÄÖÜ…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.limit); got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}
