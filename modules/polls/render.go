package polls

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/polling"
	"github.com/samber/lo"
)

const (
	buttonsPerRow  = 5
	maxOptions     = 25
	maxLabelLength = 80
	maxFieldName   = 256
)

func openMessage(p *polling.Poll) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{openEmbed(p)},
		Components: optionRows(p),
	}
}

func openEmbed(p *polling.Poll) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Poll: " + p.Title,
		Description: p.Description,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "Closes",
			Value: fmt.Sprintf("<t:%d:R>", p.Conclusion.Unix()),
		}},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Open until"},
		Timestamp: p.Conclusion.UTC().Format(time.RFC3339),
	}
}

// optionRows builds one secondary button per option, five to a row. The
// custom id carries the option index, never its text.
func optionRows(p *polling.Poll) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(p.Options))
	for k, v := range p.Options {
		id := api.NewCustomId("polls", "select").With("poll", p.ID).WithInt("option", k)
		buttons = append(buttons, discordgo.Button{
			Label:    truncate(v, maxLabelLength),
			Style:    discordgo.SecondaryButton,
			CustomID: id.ToString(),
		})
	}

	return lo.Map(lo.Chunk(buttons, buttonsPerRow), func(row []discordgo.MessageComponent, _ int) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: row}
	})
}

func closedEmbed(p *polling.Poll, results []polling.Result) *discordgo.MessageEmbed {
	fields := lo.Map(results, func(r polling.Result, _ int) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{
			Name:  truncate(r.Option, maxFieldName),
			Value: strconv.Itoa(r.Votes),
		}
	})

	return &discordgo.MessageEmbed{
		Title:       "Closed: " + p.Title,
		Description: p.Description,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Closed at"},
		Timestamp:   p.Conclusion.UTC().Format(time.RFC3339),
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
