package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/rs/zerolog"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"

	"itemtracker/db/migrations"
)

const memoryPath = ":memory:"

type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
}

type Options struct {
	LogQueries     bool
	QueryLog       io.Writer
	MaxOpenConns   int
	TracerProvider trace.TracerProvider
}

// DSN enables foreign keys and takes the write lock when a transaction
// begins so concurrent sessions wait on busy_timeout instead of failing.
func DSN(path string) string {
	if path == memoryPath {
		return "file::memory:?cache=shared&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	}

	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
}

func Open(path string, opts Options) (*sql.DB, error) {
	tracerProvider := opts.TracerProvider

	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}

	dsn := DSN(path)

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("itemtracker"),
		otelsql.WithTracerProvider(tracerProvider),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	db := sqlDB

	if opts.LogQueries {
		writer := opts.QueryLog

		if writer == nil {
			writer = os.Stdout
		}

		logger := zerolog.New(writer).With().Timestamp().Str("component", "sql").Logger()

		db = sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		)

		// the logging pool owns its own connections from here on
		_ = sqlDB.Close()
	}

	maxOpen := opts.MaxOpenConns

	if maxOpen <= 0 {
		maxOpen = 10
	}

	if path == memoryPath {
		maxOpen = 1
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(5, maxOpen))
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// NewDB opens the database, applies pending migrations and returns it with a
// query builder using sqlite placeholders.
func NewDB(path string, opts Options) (*DB, error) {
	sqlDB, err := Open(path, opts)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.SQLite, "sqlite")

	if err != nil {
		return fmt.Errorf("load sqlite migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
