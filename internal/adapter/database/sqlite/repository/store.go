package repository

import (
	"context"
	"database/sql"
	"fmt"

	"itemtracker/internal/adapter/database/sqlite"
	"itemtracker/internal/core/port"
)

type Store struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewStore(db *sqlite.DB, telemetry port.Telemetry) *Store {
	return &Store{db: db, telemetry: telemetry}
}

func (s *Store) Begin(ctx context.Context) (port.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &session{
		tx:    tx,
		items: NewItemRepository(tx, s.db.QueryBuilder, s.telemetry),
		stats: NewStatsRepository(tx, s.db.QueryBuilder, s.telemetry),
		users: NewUserRepository(tx, s.db.QueryBuilder, s.telemetry),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type session struct {
	tx    *sql.Tx
	items port.ItemRepository
	stats port.StatsRepository
	users port.UserRepository
}

func (s *session) Items() port.ItemRepository  { return s.items }
func (s *session) Stats() port.StatsRepository { return s.stats }
func (s *session) Users() port.UserRepository  { return s.users }

func (s *session) Commit() error {
	return s.tx.Commit()
}

func (s *session) Rollback() error {
	return s.tx.Rollback()
}
