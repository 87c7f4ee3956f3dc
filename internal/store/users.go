package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is the directory record the engagement stores resolve callers against.
type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UserStore struct {
	db  *sqlx.DB
	now Clock
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *UserStore) WithClock(c Clock) *UserStore {
	s.now = c
	return s
}

// q rebinds ? placeholders to the driver's native format.
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new user. Returns ErrEmailTaken if the email is registered.
func (s *UserStore) Create(ctx context.Context, email, displayName string) (*User, error) {
	id := uuid.New().String()
	now := s.now()
	email = strings.TrimSpace(email)

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), id, email, displayName, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &User{ID: id, Email: email, DisplayName: displayName, CreatedAt: now, UpdatedAt: now}, nil
}

// GetByID returns the user matching id, or ErrUserNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user matching email, or ErrUserNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAll returns all users ordered by display name.
func (s *UserStore) ListAll(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY display_name ASC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// userExists reports whether a user row exists, using the caller's tx or db.
func userExists(ctx context.Context, ext sqlx.ExtContext, id string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, ext, &count, ext.Rebind(`SELECT COUNT(*) FROM users WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
