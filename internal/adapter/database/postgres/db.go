package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"itemtracker/db/migrations"
)

type DB struct {
	*pgxpool.Pool
	QueryBuilder squirrel.StatementBuilderType
}

type Options struct {
	MaxConns int32
}

// NewDB migrates the database at url and returns a connection pool with a
// query builder using postgres placeholders.
func NewDB(ctx context.Context, url string, opts Options) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres url is empty")
	}

	if err := RunMigrations(url); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(url)

	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}

	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)

	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{
		Pool:         pool,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func RunMigrations(url string) error {
	source, err := iofs.New(migrations.Postgres, "postgres")

	if err != nil {
		return fmt.Errorf("load postgres migrations: %w", err)
	}

	sqlDB, err := sql.Open("pgx", url)

	if err != nil {
		return err
	}

	defer sqlDB.Close()

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
