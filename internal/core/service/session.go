package service

import (
	"context"
	"errors"
	"fmt"

	"itemtracker/internal/core/port"
)

// withinSession runs fn inside one store session and ends it with exactly one
// Commit or Rollback.
func withinSession(ctx context.Context, store port.Store, fn func(port.Session) error) (err error) {
	session, err := store.Begin(ctx)

	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = session.Rollback()
			panic(p)
		}
	}()

	if err := fn(session); err != nil {
		if rbErr := session.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback session: %w", rbErr))
		}

		return err
	}

	if err := session.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	return nil
}
