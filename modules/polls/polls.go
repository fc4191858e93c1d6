package polls

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/absol/api"
	"github.com/lordralex/absol/api/database"
	"github.com/lordralex/absol/api/env"
	"github.com/lordralex/absol/api/logger"
	"github.com/lordralex/absol/polling"
	"github.com/lordralex/absol/polling/gormstore"
	"github.com/lordralex/absol/polling/memstore"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const requestTimeout = 30 * time.Second

type Module struct {
	manager *polling.Manager
	sweeper *cron.Cron
	guilds  *guildSet
}

func (m *Module) Load(ds *discordgo.Session, d *api.Dispatcher) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	m.guilds = &guildSet{ids: make(map[string]struct{})}
	m.manager = polling.NewManager(store, &gateway{ds: ds},
		polling.WithTaskTimeout(env.GetDurationOr("polls.timeout", 30*time.Second)))

	// GuildCreate feeds restore for guilds joined after startup
	api.RegisterIntentNeed(discordgo.IntentsGuilds)

	d.OnStartup(m.onReady)
	d.OnCommand(createPollCommand.Name, m.runCreateCommand)
	d.OnFormSubmit("polls", "create", m.runCreateSubmit)
	d.OnButton("polls", "select", m.runVote)
	d.OnCommand(openPollsCommand.Name, m.runOpenPolls)
	ds.AddHandler(m.onGuildCreate)

	m.sweeper = cron.New(cron.WithLogger(cronLogger{logger.For("sweep")}))
	if _, err = m.sweeper.AddFunc(env.GetOr("polls.sweep", "@every 1m"), m.sweep); err != nil {
		return fmt.Errorf("invalid polls.sweep schedule: %w", err)
	}
	m.sweeper.Start()
	return nil
}

func (m *Module) Unload() {
	if m.sweeper != nil {
		<-m.sweeper.Stop().Done()
	}
	if m.manager != nil {
		m.manager.Close()
	}
}

func (*Module) Name() string {
	return "polls"
}

func openStore() (polling.Store, error) {
	switch kind := strings.ToLower(env.GetOr("polls.store", "database")); kind {
	case "memory":
		logger.Warn().Msg("polls are kept in memory and will be lost on restart")
		return memstore.New(), nil
	case "database":
		db, err := database.Get()
		if err != nil {
			return nil, err
		}
		store := gormstore.New(db)
		if err = store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrating poll tables: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown poll store %q", kind)
	}
}

func (m *Module) onReady(ds *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		m.guilds.add(g.ID)
	}

	appId := env.GetOr("app.id", r.User.ID)
	targets := env.GetStringArray("polls.guilds", ";")
	if len(targets) == 0 {
		targets = m.guilds.list()
	}
	for _, guild := range targets {
		for _, v := range []*discordgo.ApplicationCommand{createPollCommand, openPollsCommand} {
			logger.Out().Str("command", v.Name).Str("guild", guild).Msg("registering command")
			if _, err := ds.ApplicationCommandCreate(appId, guild, v); err != nil {
				logger.Err().Str("command", v.Name).Str("guild", guild).Err(err).Msg("cannot create slash command")
			}
		}
	}

	go m.restore(m.guilds.list())
}

// onGuildCreate picks up guilds joined after startup.
func (m *Module) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || !m.guilds.add(g.ID) {
		return
	}
	go m.restore([]string{g.ID})
}

func (m *Module) restore(guilds []string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := m.manager.RestoreOnStartup(ctx, guilds); err != nil {
		logger.Err().Err(err).Msg("unable to restore open polls")
	}
}

func (m *Module) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := m.manager.Sweep(ctx, m.guilds.list()); err != nil {
		logger.Err().Err(err).Msg("overdue poll sweep failed")
	}
}

type guildSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// add reports whether id was not yet known.
func (s *guildSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *guildSet) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Keys(s.ids)
}

// cronLogger adapts cron's logr-style logger to zerolog.
type cronLogger struct {
	log *zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
