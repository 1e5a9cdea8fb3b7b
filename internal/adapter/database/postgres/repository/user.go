package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"itemtracker/internal/adapter/database/postgres"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type UserRepository struct {
	base
}

func NewUserRepository(q Querier, builder sq.StatementBuilderType, telemetry port.Telemetry) port.UserRepository {
	return &UserRepository{newBase(q, builder, telemetry, "user", "users")}
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return ur.getBy(ctx, "GetByID", sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, "GetByEmail", sq.Eq{"email": email})
}

func (ur *UserRepository) getBy(ctx context.Context, operation string, pred sq.Eq) (domain.User, error) {
	var user domain.User

	err := ur.observe(ctx, operation, nil, func(ctx context.Context, span port.Span) error {
		query := ur.builder.Select(postgres.UserColumns...).
			From("users").
			Where(pred).
			Limit(1)

		stmt, args, err := ur.toSQL(ctx, operation, query)

		if err != nil {
			return err
		}

		user, err = postgres.ScanUser(ur.q.QueryRow(ctx, stmt, args...))

		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}

		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	var saved domain.User

	err := ur.observe(ctx, "Create", nil, func(ctx context.Context, span port.Span) error {
		query := ur.builder.Insert("users").
			Columns("uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at").
			Values(user.UUID.String(), user.Name, user.Email, user.EncryptedPassword, string(user.Role.OrDefault()), user.CreatedAt, user.UpdatedAt).
			Suffix("RETURNING " + joinColumns(postgres.UserColumns))

		stmt, args, err := ur.toSQL(ctx, "Create", query)

		if err != nil {
			return err
		}

		saved, err = postgres.ScanUser(ur.q.QueryRow(ctx, stmt, args...))

		if postgres.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}

		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		return nil
	})

	return saved, err
}

func (ur *UserRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := ur.observe(ctx, "Count", nil, func(ctx context.Context, span port.Span) error {
		stmt, args, err := ur.toSQL(ctx, "Count", ur.builder.Select("COUNT(*)").From("users"))

		if err != nil {
			return err
		}

		return ur.q.QueryRow(ctx, stmt, args...).Scan(&count)
	})

	return count, err
}
