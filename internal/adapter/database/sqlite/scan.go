package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"itemtracker/internal/core/domain"
)

var (
	ItemColumns = []string{"id", "value", "name", "notes", "completed", "duration", "user_id", "created", "updated"}
	UserColumns = []string{"id", "uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at"}
)

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

func ScanItem(row RowScanner) (domain.Item, error) {
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

func ScanItems(rows *sql.Rows) ([]domain.Item, error) {
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

func ScanUser(row RowScanner) (domain.User, error) {
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
	var sqliteErr sqlite3.Error

	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
