package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Like represents a row in the likes table. At most one row ever exists per
// (user, pin) pair: the first toggle creates it with liked=true and every
// later toggle flips the flag in place. Rows are never deleted.
type Like struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	PinID      string    `db:"pin_id"`
	Liked      bool      `db:"liked"`
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
}

// ToggleResult is the state after a toggle: the caller's new liked flag and
// the pin's aggregate count from the denormalized counter.
type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type LikeStore struct {
	db   *sqlx.DB
	pins *PinStore
	now  Clock
}

func NewLikeStore(db *sqlx.DB, pins *PinStore) *LikeStore {
	return &LikeStore{db: db, pins: pins, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *LikeStore) WithClock(c Clock) *LikeStore {
	s.now = c
	return s
}

// Toggle flips the user's like state for the pin and adjusts the pin's
// denormalized counter in the same transaction, so the row flip and the
// counter delta commit or abort together. A concurrent first-like losing the
// unique (user_id, pin_id) race re-reads the winner's row and flips it,
// which is exactly the second toggle it raced to be.
func (s *LikeStore) Toggle(ctx context.Context, pinID, userID string) (*ToggleResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := pinExistsTx(ctx, tx, pinID); err != nil {
		return nil, err
	}
	exists, err := userExists(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	liked, err := s.flipTx(ctx, tx, pinID, userID)
	if err != nil {
		return nil, err
	}

	delta := int64(-1)
	if liked {
		delta = 1
	}
	if err := s.pins.IncrementLikeCount(ctx, tx, pinID, delta); err != nil {
		return nil, err
	}

	var count int64
	err = tx.GetContext(ctx, &count, tx.Rebind(`SELECT like_count FROM pins WHERE id = ?`), pinID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &ToggleResult{Liked: liked, LikeCount: count}, nil
}

// flipTx creates the like row on first toggle or flips the existing one,
// returning the resulting liked state.
func (s *LikeStore) flipTx(ctx context.Context, tx *sqlx.Tx, pinID, userID string) (bool, error) {
	var l Like
	err := tx.GetContext(ctx, &l, tx.Rebind(`
		SELECT * FROM likes WHERE user_id = ? AND pin_id = ?
	`), userID, pinID)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}

	now := s.now()
	if err == sql.ErrNoRows {
		id := uuid.New().String()
		err = execConflictable(ctx, tx, tx.Rebind(`
			INSERT INTO likes (id, user_id, pin_id, liked, created_at, modified_at)
			VALUES (?, ?, ?, TRUE, ?, ?)
		`), id, userID, pinID, now, now)
		if err == nil {
			return true, nil
		}
		if !isUniqueConstraintError(err) {
			return false, err
		}
		err = tx.GetContext(ctx, &l, tx.Rebind(`
			SELECT * FROM likes WHERE user_id = ? AND pin_id = ?
		`), userID, pinID)
		if err != nil {
			return false, err
		}
	}

	liked := !l.Liked
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE likes SET liked = ?, modified_at = ? WHERE id = ?
	`), liked, now, l.ID)
	if err != nil {
		return false, err
	}
	return liked, nil
}

// CountForPin returns the authoritative like count: the number of like rows
// with liked=true. The pins.like_count column caches this value.
func (s *LikeStore) CountForPin(ctx context.Context, pinID string) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`
		SELECT COUNT(*) FROM likes WHERE pin_id = ? AND liked = TRUE
	`), pinID)
	return n, err
}

// UsersWhoLiked returns the ids of users with an active like on the pin.
func (s *LikeStore) UsersWhoLiked(ctx context.Context, pinID string) ([]string, error) {
	if err := pinExistsTx(ctx, s.db, pinID); err != nil {
		return nil, err
	}
	var users []string
	err := s.db.SelectContext(ctx, &users, s.db.Rebind(`
		SELECT user_id FROM likes WHERE pin_id = ? AND liked = TRUE ORDER BY created_at ASC
	`), pinID)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// PinsLikedByUser returns the ids of non-deleted pins the user actively likes.
func (s *LikeStore) PinsLikedByUser(ctx context.Context, userID string) ([]string, error) {
	exists, err := userExists(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	var pins []string
	err = s.db.SelectContext(ctx, &pins, s.db.Rebind(`
		SELECT l.pin_id FROM likes l
		INNER JOIN pins p ON p.id = l.pin_id
		WHERE l.user_id = ? AND l.liked = TRUE AND p.deleted = FALSE
		ORDER BY l.modified_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// ReconcileLikeCount recomputes the pin's denormalized counter from the
// likes table. Under correct operation this is a no-op; it exists as a
// repair path and as the oracle tests assert against.
func (s *LikeStore) ReconcileLikeCount(ctx context.Context, pinID string) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int64
	err = tx.GetContext(ctx, &n, tx.Rebind(`
		SELECT COUNT(*) FROM likes WHERE pin_id = ? AND liked = TRUE
	`), pinID)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE pins SET like_count = ? WHERE id = ?`), n, pinID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}
