package polling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lordralex/absol/api/logger"
)

// CreateRequest carries everything needed to open a poll. Options is the
// raw text, one option per line.
type CreateRequest struct {
	GuildId     string `validate:"required"`
	ChannelId   string `validate:"required"`
	Title       string `validate:"required,max=256"`
	Description string `validate:"max=4000"`
	Options     string
	// Delay is in minutes; fractions are allowed.
	Delay float64
}

type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithTaskTimeout bounds how long one conclusion may take.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.timeout = timeout
	}
}

// Manager owns the poll lifecycle: creation, voting, scheduling and the
// single conclusion of every poll.
type Manager struct {
	store     Store
	gateway   Gateway
	open      *Registry
	scheduler *Scheduler
	validate  *validator.Validate

	now     func() time.Time
	timeout time.Duration
}

func NewManager(store Store, gateway Gateway, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		gateway:  gateway,
		open:     NewRegistry(),
		validate: validator.New(),
		now:      time.Now,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.scheduler = NewScheduler(m.now, m.timeout)
	return m
}

// CreatePoll validates and persists a new poll. The poll is not scheduled
// until AttachPublishedMessage is called for it.
func (m *Manager) CreatePoll(ctx context.Context, req CreateRequest) (*Poll, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPoll, err.Error())
	}
	if math.IsNaN(req.Delay) || math.IsInf(req.Delay, 0) {
		return nil, fmt.Errorf("%w: delay must be a finite number of minutes", ErrInvalidPoll)
	}
	if math.Abs(req.Delay*float64(time.Minute)) >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: delay of %g minutes is too long", ErrInvalidPoll, req.Delay)
	}

	options := ParseOptions(req.Options)
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", ErrInvalidPoll)
	}

	now := m.now()
	p := &Poll{
		GuildId:     req.GuildId,
		ChannelId:   req.ChannelId,
		Title:       req.Title,
		Description: req.Description,
		Options:     options,
		Conclusion:  now.Add(time.Duration(req.Delay * float64(time.Minute))),
		Counts:      make(map[string]string),
		Results:     ZeroResults(options),
		CreatedAt:   now,
	}
	if err := m.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving poll: %w", err)
	}
	return p, nil
}

// AttachPublishedMessage records where the poll was rendered and starts its
// conclusion timer.
func (m *Manager) AttachPublishedMessage(ctx context.Context, pollId, messageId string) error {
	p, err := m.store.Update(ctx, pollId, func(p *Poll) error {
		p.MessageId = messageId
		return nil
	})
	if err != nil {
		return fmt.Errorf("attaching message to poll %s: %w", pollId, err)
	}

	if !p.Closed {
		m.track(p)
	}
	return nil
}

// Open creates a poll, publishes it through the gateway and attaches the
// resulting message. If publishing fails the poll stays persisted but
// unscheduled; the sweep concludes it once it is due.
func (m *Manager) Open(ctx context.Context, req CreateRequest) (*Poll, error) {
	p, err := m.CreatePoll(ctx, req)
	if err != nil {
		return nil, err
	}

	messageId, err := m.gateway.Publish(ctx, p)
	if err != nil {
		return p, fmt.Errorf("publishing poll %s: %w", p.ID, err)
	}

	if err = m.AttachPublishedMessage(ctx, p.ID, messageId); err != nil {
		return p, err
	}
	p.MessageId = messageId
	return p, nil
}

// RestoreOnStartup loads every open poll of the given guilds and schedules
// it. Polls already past their conclusion fire immediately.
func (m *Manager) RestoreOnStartup(ctx context.Context, guildIds []string) error {
	var errs []error
	for _, guildId := range guildIds {
		polls, err := m.store.FindOpenByGuild(ctx, guildId)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading open polls for guild %s: %w", guildId, err))
			continue
		}
		for _, p := range polls {
			m.track(p)
		}
		if len(polls) > 0 {
			logger.Out().Str("guild", guildId).Int("polls", len(polls)).Msg("restored open polls")
		}
	}
	return errors.Join(errs...)
}

// Sweep concludes open polls of the given guilds that are due but have no
// armed timer, such as polls whose publish failed.
func (m *Manager) Sweep(ctx context.Context, guildIds []string) error {
	var errs []error
	now := m.now()
	for _, guildId := range guildIds {
		polls, err := m.store.FindOpenByGuild(ctx, guildId)
		if err != nil {
			errs = append(errs, fmt.Errorf("sweeping guild %s: %w", guildId, err))
			continue
		}
		for _, p := range polls {
			if p.Conclusion.After(now) || m.scheduler.Pending(p.ID) {
				continue
			}
			logger.Warn().Str("poll", p.ID).Str("guild", guildId).Msg("concluding overdue poll")
			m.track(p)
		}
	}
	return errors.Join(errs...)
}

// SubmitVote records memberId's choice. Votes on a closed poll are ignored
// without error.
func (m *Manager) SubmitVote(ctx context.Context, pollId, memberId, option string) error {
	return m.vote(ctx, pollId, func(p *Poll) error {
		return ApplyVote(p, memberId, option)
	})
}

// SubmitVoteIndex is SubmitVote with the option given by its position.
func (m *Manager) SubmitVoteIndex(ctx context.Context, pollId, memberId string, index int) error {
	return m.vote(ctx, pollId, func(p *Poll) error {
		option, err := OptionAt(p, index)
		if err != nil {
			return err
		}
		return ApplyVote(p, memberId, option)
	})
}

func (m *Manager) vote(ctx context.Context, pollId string, apply func(p *Poll) error) error {
	_, err := m.store.Update(ctx, pollId, func(p *Poll) error {
		if p.Closed {
			return errPollClosed
		}
		return apply(p)
	})
	if errors.Is(err, errPollClosed) {
		return nil
	}
	return err
}

// ConcludePoll closes the poll, tallies its votes and updates the
// rendering. Only the first call for a poll has any effect. A failed
// rendering update is logged and does not reopen the poll.
func (m *Manager) ConcludePoll(ctx context.Context, pollId string) error {
	p, err := m.store.Update(ctx, pollId, func(p *Poll) error {
		m.open.Remove(p.GuildId, p.ID)
		if p.Closed {
			return errPollClosed
		}
		TallyVotes(p)
		p.Closed = true
		return nil
	})
	if errors.Is(err, errPollClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("concluding poll %s: %w", pollId, err)
	}

	ranking := Rank(p)
	logger.Out().Str("poll", p.ID).Str("guild", p.GuildId).Int("votes", len(p.Counts)).Msg("poll concluded")

	if !p.Published() {
		logger.Warn().Str("poll", p.ID).Msg("concluded poll was never published, skipping rendering")
		return nil
	}
	if err := m.gateway.Update(ctx, p, ranking); err != nil {
		logger.Err().Str("poll", p.ID).Str("channel", p.ChannelId).Err(err).Msg("unable to render poll results")
	}
	return nil
}

// OpenPolls lists the guild's polls that are waiting for conclusion.
func (m *Manager) OpenPolls(guildId string) []OpenPoll {
	return m.open.Open(guildId)
}

// Scheduled reports whether pollId has an armed conclusion timer.
func (m *Manager) Scheduled(pollId string) bool {
	return m.scheduler.Pending(pollId)
}

// Close stops all timers and waits for running conclusions.
func (m *Manager) Close() {
	m.scheduler.Stop()
}

func (m *Manager) track(p *Poll) {
	m.open.Insert(p)
	id := p.ID
	m.scheduler.Schedule(id, p.Conclusion, func(ctx context.Context) error {
		return m.ConcludePoll(ctx, id)
	})
}
