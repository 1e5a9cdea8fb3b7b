package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"itemtracker/internal/adapter/database/sqlite"
	"itemtracker/internal/adapter/database/sqlite/repository"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
	"itemtracker/internal/core/telemetry"
)

// InitTestDB returns a migrated sqlite database living in the test's temp dir.
func InitTestDB(t testing.TB) *sqlite.DB {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"), sqlite.Options{MaxOpenConns: 1})

	if err != nil {
		t.Fatalf("init test db: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func InitTestStore(t testing.TB) *repository.Store {
	t.Helper()

	return repository.NewStore(InitTestDB(t), telemetry.NewNoOpProbe())
}

// CreateUser inserts a user through its own session and returns it.
func CreateUser(t testing.TB, store port.Store, email string) domain.User {
	t.Helper()

	ctx := context.Background()
	session, err := store.Begin(ctx)

	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	now := domain.Now()

	user, err := session.Users().Create(ctx, domain.User{
		UUID:              uuid.New(),
		Name:              "Test User",
		Email:             email,
		EncryptedPassword: "not-a-hash",
		Role:              domain.Profile,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	if err != nil {
		session.Rollback()
		t.Fatalf("create user %s: %v", email, err)
	}

	if err := session.Commit(); err != nil {
		t.Fatalf("commit user %s: %v", email, err)
	}

	return user
}
