package polling

import "context"

// Store persists poll records. It is the single source of truth for whether
// a poll has concluded.
type Store interface {
	// Save inserts or replaces p, assigning p.ID when it is empty.
	Save(ctx context.Context, p *Poll) error
	// Get returns ErrPollNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Poll, error)
	FindOpenByGuild(ctx context.Context, guildId string) ([]*Poll, error)
	// Update runs fn against the current record as one atomic
	// read-modify-write. If fn returns an error nothing is written and the
	// error is returned unchanged.
	Update(ctx context.Context, id string, fn func(p *Poll) error) (*Poll, error)
}

// Gateway publishes and edits the rendering of a poll in its channel.
type Gateway interface {
	Publish(ctx context.Context, p *Poll) (messageId string, err error)
	// Update replaces the rendering with the final ranking. Returns
	// ErrMessageNotFound when the message is gone.
	Update(ctx context.Context, p *Poll, ranking []Result) error
}
