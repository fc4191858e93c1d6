package gormstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/lordralex/absol/polling"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Poll struct {
	ID          string `gorm:"primaryKey;size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	GuildId     string `gorm:"size:32;index:idx_polls_guild_open,priority:1"`
	ChannelId   string `gorm:"size:32"`
	MessageId   string `gorm:"size:32"`
	Title       string `gorm:"size:256"`
	Description string `gorm:"type:text"`
	Options     datatypes.JSONSlice[string]
	Conclusion  time.Time `gorm:"index"`
	Closed      bool      `gorm:"index:idx_polls_guild_open,priority:2"`
	Counts      datatypes.JSONType[map[string]string]
	Results     datatypes.JSONType[map[string]int]
}

func (Poll) TableName() string {
	return "polls"
}

func (p *Poll) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func fromPoll(p *polling.Poll) *Poll {
	counts := p.Counts
	if counts == nil {
		counts = map[string]string{}
	}
	results := p.Results
	if results == nil {
		results = map[string]int{}
	}
	return &Poll{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		GuildId:     p.GuildId,
		ChannelId:   p.ChannelId,
		MessageId:   p.MessageId,
		Title:       p.Title,
		Description: p.Description,
		Options:     datatypes.JSONSlice[string](p.Options),
		Conclusion:  p.Conclusion.UTC(),
		Closed:      p.Closed,
		Counts:      datatypes.NewJSONType(counts),
		Results:     datatypes.NewJSONType(results),
	}
}

func (p *Poll) toPoll() *polling.Poll {
	counts := p.Counts.Data()
	if counts == nil {
		counts = map[string]string{}
	}
	results := p.Results.Data()
	if results == nil {
		results = map[string]int{}
	}
	return &polling.Poll{
		ID:          p.ID,
		GuildId:     p.GuildId,
		ChannelId:   p.ChannelId,
		MessageId:   p.MessageId,
		Title:       p.Title,
		Description: p.Description,
		Options:     []string(p.Options),
		Conclusion:  p.Conclusion,
		Closed:      p.Closed,
		Counts:      counts,
		Results:     results,
		CreatedAt:   p.CreatedAt,
	}
}
