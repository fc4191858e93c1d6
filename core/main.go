package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/database"
	"github.com/lordralex/absol/api/env"
	"github.com/lordralex/absol/api/logger"
	"github.com/lordralex/absol/modules"
)

var Session *discordgo.Session

func main() {
	color.New(color.FgCyan, color.Bold).Println("absol")
	color.New(color.FgHiBlack).Println("guild polls for Discord")

	defer func() {
		if err := logger.Close(); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error closing logger: %s\n", err.Error())
		}
	}()

	token := env.Get("discord_token")
	if token == "" {
		logger.Err().Msg("DISCORD_TOKEN must be set in the environment to run this process")
		return
	}

	if dsn := env.Get("sentry.dsn"); dsn != "" {
		if err := logger.EnableSentry(dsn); err != nil {
			logger.Err().Err(err).Msg("unable to enable sentry")
		}
	}

	defer database.Close()

	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	var err error
	Session, err = discordgo.New(token)
	if err != nil {
		logger.Err().Err(err).Msg("unable to create session")
		return
	}

	names := os.Args[1:]
	if len(names) == 0 {
		names = []string{"all"}
	}

	dispatcher := api.NewDispatcher()
	modules.Load(Session, dispatcher, names)
	EnableCommands(Session, dispatcher)

	Session.Identify.Intents = api.GetIntent()
	if err = Session.Open(); err != nil {
		logger.Err().Err(err).Msg("unable to open gateway connection")
		modules.Unload()
		return
	}

	logger.Out().Strs("modules", modules.GetLoaded()).Msg("now running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Out().Msg("shutting down")
	modules.Unload()
	if err = Session.Close(); err != nil {
		logger.Err().Err(err).Msg("error closing session")
	}
}
