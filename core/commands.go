package main

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/logger"
)

// EnableCommands routes gateway events into the dispatch table.
func EnableCommands(session *discordgo.Session, d *api.Dispatcher) {
	logger.Out().Msg("adding command handlers")

	session.AddHandler(func(ds *discordgo.Session, r *discordgo.Ready) {
		logger.Out().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("gateway ready")
		d.Startup(ds, r)
	})

	session.AddHandler(func(ds *discordgo.Session, i *discordgo.InteractionCreate) {
		if !d.Dispatch(ds, i) {
			logger.Debug().Str("interaction", i.ID).Int("type", int(i.Type)).Msg("no handler for interaction")
		}
	})
}
