package polls

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/polling"
)

// gateway renders polls as channel messages.
type gateway struct {
	ds *discordgo.Session
}

func (g *gateway) Publish(ctx context.Context, p *polling.Poll) (string, error) {
	if !api.IsTextChannel(api.GetChannel(g.ds, p.ChannelId)) {
		return "", fmt.Errorf("channel %s cannot hold a poll", p.ChannelId)
	}

	message, err := g.ds.ChannelMessageSendComplex(p.ChannelId, openMessage(p), discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return message.ID, nil
}

func (g *gateway) Update(ctx context.Context, p *polling.Poll, results []polling.Result) error {
	embeds := []*discordgo.MessageEmbed{closedEmbed(p, results)}
	components := []discordgo.MessageComponent{}

	edit := discordgo.NewMessageEdit(p.ChannelId, p.MessageId)
	edit.Embeds = &embeds
	edit.Components = &components

	_, err := g.ds.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	if isNotFound(err) {
		return fmt.Errorf("%w: %s in %s", polling.ErrMessageNotFound, p.MessageId, p.ChannelId)
	}
	return err
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
