package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"itemtracker/internal/adapter/database/postgres"
	"itemtracker/internal/core/port"
)

type Store struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewStore(db *postgres.DB, telemetry port.Telemetry) *Store {
	return &Store{db: db, telemetry: telemetry}
}

func (s *Store) Begin(ctx context.Context) (port.Session, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &session{
		ctx:   ctx,
		tx:    tx,
		items: NewItemRepository(tx, s.db.QueryBuilder, s.telemetry),
		stats: NewStatsRepository(tx, s.db.QueryBuilder, s.telemetry),
		users: NewUserRepository(tx, s.db.QueryBuilder, s.telemetry),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

type session struct {
	ctx   context.Context
	tx    pgx.Tx
	items port.ItemRepository
	stats port.StatsRepository
	users port.UserRepository
}

func (s *session) Items() port.ItemRepository  { return s.items }
func (s *session) Stats() port.StatsRepository { return s.stats }
func (s *session) Users() port.UserRepository  { return s.users }

func (s *session) Commit() error {
	return s.tx.Commit(s.ctx)
}

// Rollback uses a fresh context so a cancelled request still releases its
// connection.
func (s *session) Rollback() error {
	return s.tx.Rollback(context.WithoutCancel(s.ctx))
}
