package polls

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/env"
	"github.com/lordralex/absol/api/logger"
	"github.com/lordralex/absol/polling"
)

var createPollCommand = &discordgo.ApplicationCommand{
	Name:        "create-poll",
	Description: "Create a poll members vote on with buttons",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:         "channel",
			Description:  "Channel to post the poll in (default is this channel)",
			Type:         discordgo.ApplicationCommandOptionChannel,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
			Required:     false,
		},
		{
			Name:        "timeframe",
			Description: "How long the poll stays open",
			Type:        discordgo.ApplicationCommandOptionNumber,
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "10 seconds", Value: 0.161616},
				{Name: "5 minutes", Value: 5},
				{Name: "10 minutes", Value: 10},
				{Name: "20 minutes", Value: 20},
				{Name: "1 hour", Value: 60},
				{Name: "2 hours", Value: 120},
				{Name: "6 hours", Value: 360},
				{Name: "12 hours", Value: 720},
				{Name: "1 day", Value: 1440},
				{Name: "2 days", Value: 2880},
				{Name: "5 days", Value: 7200},
				{Name: "2 weeks", Value: 20160},
				{Name: "1 month", Value: 43200},
			},
		},
	},
}

// runCreateCommand opens the form collecting the poll text. Channel and
// timeframe travel in the form's custom id.
func (m *Module) runCreateCommand(ds *discordgo.Session, i *discordgo.InteractionCreate, _ *api.CustomId) {
	if i.GuildID == "" {
		api.RespondEphemeral(ds, i, "Polls can only be created in a server")
		return
	}

	channelId := i.ChannelID
	timeframe := env.GetFloatOr("polls.timeframe", 10)
	for _, v := range i.ApplicationCommandData().Options {
		switch v.Name {
		case "channel":
			channelId = v.ChannelValue(nil).ID
		case "timeframe":
			timeframe = v.FloatValue()
		}
	}

	id := api.NewCustomId("polls", "create").With("channel", channelId).WithFloat("timeframe", timeframe)
	err := ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   id.ToString(),
			Title:      "Poll options",
			Components: createForm(),
		},
	})
	if err != nil {
		logger.Err().Err(err).Msg("unable to show poll form")
	}
}

func createForm() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
			CustomID:    "title",
			Label:       "Title",
			Style:       discordgo.TextInputShort,
			Placeholder: "Lunch",
			Required:    true,
			MaxLength:   256,
		}}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
			CustomID:    "description",
			Label:       "Description",
			Style:       discordgo.TextInputParagraph,
			Placeholder: "Where do we eat on Friday?",
			Required:    true,
			MaxLength:   4000,
		}}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{discordgo.TextInput{
			CustomID:    "options",
			Label:       "Options (one per line)",
			Style:       discordgo.TextInputParagraph,
			Placeholder: "Pizza\nSushi\nTacos",
			Required:    true,
		}}},
	}
}

func (m *Module) runCreateSubmit(ds *discordgo.Session, i *discordgo.InteractionCreate, id *api.CustomId) {
	api.DeferEphemeral(ds, i)

	timeframe, err := id.GetFloat("timeframe")
	if err != nil {
		logger.Warn().Str("customId", id.ToString()).Err(err).Msg("poll form without timeframe")
		timeframe = env.GetFloatOr("polls.timeframe", 10)
	}

	fields := formValues(i.ModalSubmitData())
	if n := len(polling.ParseOptions(fields["options"])); n > maxOptions {
		api.EditResponse(ds, i, fmt.Sprintf("A poll can have at most %d options, you gave %d", maxOptions, n))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	channelId := id.Get("channel")
	p, err := m.manager.Open(ctx, polling.CreateRequest{
		GuildId:     i.GuildID,
		ChannelId:   channelId,
		Title:       fields["title"],
		Description: fields["description"],
		Options:     fields["options"],
		Delay:       timeframe,
	})

	switch {
	case errors.Is(err, polling.ErrInvalidPoll):
		api.EditResponse(ds, i, "Poll is invalid: "+err.Error())
	case err != nil && p == nil:
		logger.Err().Str("guild", i.GuildID).Err(err).Msg("unable to create poll")
		api.EditResponse(ds, i, "Unable to save poll")
	case err != nil:
		logger.Err().Str("poll", p.ID).Str("channel", channelId).Err(err).Msg("unable to post poll")
		api.EditResponse(ds, i, fmt.Sprintf("Poll was saved but could not be posted in <#%s>", channelId))
	default:
		api.EditResponse(ds, i, fmt.Sprintf("Poll created in <#%s>, it closes <t:%d:R>", channelId, p.Conclusion.Unix()))
	}
}

// formValues maps each text input of a submitted form to its value.
func formValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, v := range row.Components {
			if input, ok := v.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}
