package gormstore

import (
	"context"
	"errors"

	"github.com/lordralex/absol/polling"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Poll{})
}

func (s *Store) Save(ctx context.Context, p *polling.Poll) error {
	record := fromPoll(p)

	var err error
	if record.ID == "" {
		err = s.db.WithContext(ctx).Create(record).Error
	} else {
		err = s.db.WithContext(ctx).Save(record).Error
	}
	if err != nil {
		return err
	}

	p.ID = record.ID
	p.CreatedAt = record.CreatedAt
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*polling.Poll, error) {
	record := &Poll{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, polling.ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.toPoll(), nil
}

func (s *Store) FindOpenByGuild(ctx context.Context, guildId string) ([]*polling.Poll, error) {
	var records []Poll
	err := s.db.WithContext(ctx).
		Where("guild_id = ? AND closed = ?", guildId, false).
		Order("conclusion").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	polls := make([]*polling.Poll, 0, len(records))
	for i := range records {
		polls = append(polls, records[i].toPoll())
	}
	return polls, nil
}

// Update locks the row for the duration of fn. Dialects without row locks
// (sqlite) rely on the transaction alone.
func (s *Store) Update(ctx context.Context, id string, fn func(p *polling.Poll) error) (*polling.Poll, error) {
	var result *polling.Poll

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &Poll{}
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return polling.ErrPollNotFound
		}
		if err != nil {
			return err
		}

		p := record.toPoll()
		if err = fn(p); err != nil {
			return err
		}

		updated := fromPoll(p)
		updated.CreatedAt = record.CreatedAt
		if err = tx.Save(updated).Error; err != nil {
			return err
		}
		result = updated.toPoll()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
