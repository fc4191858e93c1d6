package api

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api/logger"
)

// GetChannel looks the channel up in the session state first and falls back
// to the REST API, caching what it finds.
func GetChannel(ds *discordgo.Session, channelId string) *discordgo.Channel {
	c, err := ds.State.Channel(channelId)
	if err != nil {
		c, err = ds.Channel(channelId)
		if err != nil {
			logger.Err().Str("channel", channelId).Err(err).Msg("unable to fetch channel")
			return nil
		}
		if err = ds.State.ChannelAdd(c); err != nil {
			logger.Debug().Str("channel", channelId).Err(err).Msg("unable to cache channel")
		}
	}

	return c
}

// IsTextChannel reports whether messages with components can be posted to c.
func IsTextChannel(c *discordgo.Channel) bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread:
		return true
	}
	return false
}

// MemberId returns the id of the user behind an interaction, in guilds and
// direct messages alike.
func MemberId(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// RespondEphemeral answers an interaction with a message only the invoking
// user can see.
func RespondEphemeral(ds *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Err().Err(err).Msg("unable to respond to interaction")
	}
}

// DeferEphemeral acknowledges an interaction; the reply follows through
// EditResponse.
func DeferEphemeral(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	err := ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		logger.Err().Err(err).Msg("unable to defer interaction")
	}
}

func EditResponse(ds *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := ds.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		logger.Err().Err(err).Msg("unable to edit interaction response")
	}
}
