package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"itemtracker/internal/core/domain"
)

const uniqueViolation = "23505"

var (
	ItemColumns = []string{"id", "value", "name", "notes", "completed", "duration", "user_id", "created", "updated"}
	UserColumns = []string{"id", "uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at"}
)

func ScanItem(row pgx.Row) (domain.Item, error) {
	var item domain.Item

	err := row.Scan(
		&item.ID,
		&item.Value,
		&item.Name,
		&item.Notes,
		&item.Completed,
		&item.Duration,
		&item.UserId,
		&item.Created,
		&item.Updated,
	)

	if err != nil {
		return domain.Item{}, err
	}

	item.Created = item.Created.UTC()
	item.Updated = item.Updated.UTC()

	return item, nil
}

func ScanItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()

	items := make([]domain.Item, 0)

	for rows.Next() {
		item, err := ScanItem(rows)

		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func ScanUser(row pgx.Row) (domain.User, error) {
	var (
		user domain.User
		role string
	)

	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Name,
		&user.Email,
		&user.EncryptedPassword,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, err
	}

	user.Role = domain.UserRole(role)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return user, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
