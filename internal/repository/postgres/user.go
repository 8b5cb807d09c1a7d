package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"englishcard/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindUser looks a user up by Telegram ID, returns nil if absent
func (r *UserRepo) FindUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	var username, firstName, lastName sql.NullString
	query := `
		SELECT user_id, telegram_id, username, first_name, last_name, created_at
		FROM users
		WHERE telegram_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(
		&u.ID, &u.TelegramID, &username, &firstName, &lastName, &u.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", domain.ErrStorage, err)
	}

	u.Username = username.String
	u.FirstName = firstName.String
	u.LastName = lastName.String

	return &u, nil
}

// CreateUser inserts a new user. Not an upsert: a second call for the
// same Telegram ID fails with domain.ErrStorageConflict.
func (r *UserRepo) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at
	`
	created := *user
	err := r.db.QueryRowContext(ctx, query,
		user.TelegramID,
		nullString(user.Username),
		nullString(user.FirstName),
		nullString(user.LastName),
	).Scan(&created.ID, &created.CreatedAt)

	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: user %d already exists", domain.ErrStorageConflict, user.TelegramID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create user: %w", domain.ErrStorage, err)
	}

	return &created, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
