package polls

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/polling"
)

const maxMessageLength = 2000

var openPollsCommand = &discordgo.ApplicationCommand{
	Name:        "open-polls",
	Description: "List the polls of this server that are still open",
	Type:        discordgo.ChatApplicationCommand,
}

func (m *Module) runOpenPolls(ds *discordgo.Session, i *discordgo.InteractionCreate, _ *api.CustomId) {
	api.RespondEphemeral(ds, i, listOpenPolls(m.manager.OpenPolls(i.GuildID)))
}

func listOpenPolls(open []polling.OpenPoll) string {
	if len(open) == 0 {
		return "There are no open polls"
	}

	sb := &strings.Builder{}
	sb.WriteString("Open polls:")
	for k, v := range open {
		line := fmt.Sprintf("\n- **%s** in <#%s>, closes <t:%d:R>", v.Title, v.ChannelId, v.Conclusion.Unix())
		if v.MessageId != "" {
			line += fmt.Sprintf(" ([jump](https://discord.com/channels/%s/%s/%s))", v.GuildId, v.ChannelId, v.MessageId)
		}
		if sb.Len()+len(line) > maxMessageLength-32 {
			fmt.Fprintf(sb, "\n...and %d more", len(open)-k)
			break
		}
		sb.WriteString(line)
	}
	return sb.String()
}
