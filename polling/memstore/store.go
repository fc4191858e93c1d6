package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lordralex/absol/polling"
)

// Store keeps polls in process memory. Every method hands out copies, and
// Update holds the write lock for the whole read-modify-write.
type Store struct {
	mu    sync.RWMutex
	polls map[string]*polling.Poll
}

func New(seed ...*polling.Poll) *Store {
	s := &Store{polls: make(map[string]*polling.Poll, len(seed))}
	for _, p := range seed {
		s.polls[p.ID] = p.Clone()
	}
	return s
}

func (s *Store) Save(_ context.Context, p *polling.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	s.polls[p.ID] = p.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*polling.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.polls[id]
	if !ok {
		return nil, polling.ErrPollNotFound
	}
	return p.Clone(), nil
}

func (s *Store) FindOpenByGuild(_ context.Context, guildId string) ([]*polling.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*polling.Poll, 0)
	for _, p := range s.polls {
		if p.GuildId == guildId && !p.Closed {
			items = append(items, p.Clone())
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Conclusion.Before(items[j].Conclusion)
	})
	return items, nil
}

func (s *Store) Update(_ context.Context, id string, fn func(p *polling.Poll) error) (*polling.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.polls[id]
	if !ok {
		return nil, polling.ErrPollNotFound
	}

	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.polls[id] = working
	return working.Clone(), nil
}
