package polling

import (
	"sort"
	"sync"
	"time"
)

// OpenPoll is the registry's view of a poll that has not concluded yet.
type OpenPoll struct {
	ID         string
	GuildId    string
	ChannelId  string
	MessageId  string
	Title      string
	Conclusion time.Time
}

// Registry indexes open polls by guild. It only drives scheduling and
// listings; the store decides whether a poll is closed.
type Registry struct {
	mu    sync.RWMutex
	polls map[string]map[string]OpenPoll
}

func NewRegistry() *Registry {
	return &Registry{polls: make(map[string]map[string]OpenPoll)}
}

func (r *Registry) Insert(p *Poll) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, ok := r.polls[p.GuildId]
	if !ok {
		guild = make(map[string]OpenPoll)
		r.polls[p.GuildId] = guild
	}
	guild[p.ID] = OpenPoll{
		ID:         p.ID,
		GuildId:    p.GuildId,
		ChannelId:  p.ChannelId,
		MessageId:  p.MessageId,
		Title:      p.Title,
		Conclusion: p.Conclusion,
	}
}

func (r *Registry) Remove(guildId, pollId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guild, ok := r.polls[guildId]
	if !ok {
		return
	}
	delete(guild, pollId)
	if len(guild) == 0 {
		delete(r.polls, guildId)
	}
}

func (r *Registry) Contains(guildId, pollId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.polls[guildId][pollId]
	return ok
}

// Open lists a guild's open polls, soonest conclusion first.
func (r *Registry) Open(guildId string) []OpenPoll {
	r.mu.RLock()
	result := make([]OpenPoll, 0, len(r.polls[guildId]))
	for _, p := range r.polls[guildId] {
		result = append(result, p)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Conclusion.Equal(result[j].Conclusion) {
			return result[i].ID < result[j].ID
		}
		return result[i].Conclusion.Before(result[j].Conclusion)
	})
	return result
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, guild := range r.polls {
		n += len(guild)
	}
	return n
}
