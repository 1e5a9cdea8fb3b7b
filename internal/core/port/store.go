package port

import "context"

// Store hands out sessions. A session wraps one database transaction and
// must end with exactly one Commit or Rollback.
type Store interface {
	Begin(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
}

type Session interface {
	Items() ItemRepository
	Stats() StatsRepository
	Users() UserRepository
	Commit() error
	Rollback() error
}
