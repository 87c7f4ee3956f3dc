// Package store implements the engagement-and-tagging domain over sqlx:
// pins, the shared tag catalog, pin-tag links, bookmarks, and likes. Each
// store owns one table and enforces its own uniqueness and state-transition
// rules; cross-row sequences run inside a single transaction so concurrent
// callers always observe the latest committed state.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrPinNotFound is returned when a pin is absent or soft-deleted.
	ErrPinNotFound = errors.New("pin not found")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTagNotFound is returned when no tag matches the given keyword or id.
	ErrTagNotFound = errors.New("tag not found")

	// ErrLinkNotFound is returned when no pin-tag link row exists for the pair.
	ErrLinkNotFound = errors.New("pin-tag link not found")

	// ErrTagAlreadyLinked is returned when the pair already has an active link.
	ErrTagAlreadyLinked = errors.New("tag is already linked to this pin")

	// ErrLinkActive is returned when restoring a link that is not deleted.
	ErrLinkActive = errors.New("pin-tag link is already active")

	// ErrBookmarkNotFound is returned when a bookmark is absent or owned by
	// someone else. Ownership mismatches deliberately look identical to
	// missing rows so bookmark ids cannot be probed across users.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrBookmarkExists is returned when the (user, pin) pair already has an
	// active bookmark.
	ErrBookmarkExists = errors.New("pin is already bookmarked")

	// ErrBookmarkActive is returned when restoring a bookmark that is not deleted.
	ErrBookmarkActive = errors.New("bookmark is already active")

	// ErrEmailTaken is returned when creating a user with a registered email.
	ErrEmailTaken = errors.New("email is already registered")
)

// PinStoreIface exposes pin lifecycle and radius-search operations.
// No handler may query the DB directly; all access goes through the stores.
type PinStoreIface interface {
	Create(ctx context.Context, ownerID string, lat, lon float64, content string, isPublic bool) (*Pin, error)
	GetByID(ctx context.Context, id string) (*Pin, error)
	FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64, publicOnly bool) ([]*Pin, error)
	UpdateContent(ctx context.Context, id, content string) (*Pin, error)
	TogglePublic(ctx context.Context, id string) (*Pin, error)
	SoftDelete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Pin, error)
	ListPublic(ctx context.Context) ([]*Pin, error)
}

// TagStoreIface exposes the shared keyword catalog.
type TagStoreIface interface {
	GetOrCreate(ctx context.Context, keyword string) (*Tag, error)
	GetByKeyword(ctx context.Context, keyword string) (*Tag, error)
	SearchByKeyword(ctx context.Context, fragment string) ([]*Tag, error)
	ListAll(ctx context.Context) ([]*Tag, error)
}

// PinTagStoreIface exposes the pin-tag link state machine.
type PinTagStoreIface interface {
	Link(ctx context.Context, pinID, keyword string) (*PinTag, error)
	LinkMany(ctx context.Context, pinID string, keywords []string) ([]*Tag, error)
	Unlink(ctx context.Context, pinID, tagID string) error
	Restore(ctx context.Context, pinID, tagID string) error
	ListActiveTags(ctx context.Context, pinID string) ([]*Tag, error)
	ListPinsByKeyword(ctx context.Context, keyword string) ([]*Pin, error)
}

// BookmarkStoreIface exposes the saved-pin relation.
type BookmarkStoreIface interface {
	Create(ctx context.Context, userID, pinID string) (*Bookmark, error)
	Delete(ctx context.Context, userID, bookmarkID string) error
	Restore(ctx context.Context, userID, bookmarkID string) error
	ListActive(ctx context.Context, userID string) ([]*Bookmark, error)
}

// LikeStoreIface exposes the per-(user, pin) like toggle.
type LikeStoreIface interface {
	Toggle(ctx context.Context, pinID, userID string) (*ToggleResult, error)
	CountForPin(ctx context.Context, pinID string) (int64, error)
	UsersWhoLiked(ctx context.Context, pinID string) ([]string, error)
	PinsLikedByUser(ctx context.Context, userID string) ([]string, error)
}

// Clock supplies write timestamps. Stores default to UTC wall time; tests
// inject a fixed clock to make tombstone and audit fields deterministic.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// execConflictable executes a write that is allowed to lose a unique
// constraint race, leaving the caller free to fall back to a re-read.
// Inside a transaction the statement runs under a savepoint: PostgreSQL
// aborts the whole transaction on any statement error, so without the
// savepoint the re-read would fail with "current transaction is aborted".
// SQLite and MySQL accept the same savepoint statements.
func execConflictable(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) error {
	tx, ok := ext.(*sqlx.Tx)
	if !ok {
		_, err := ext.ExecContext(ctx, query, args...)
		return err
	}

	if _, err := tx.ExecContext(ctx, `SAVEPOINT before_insert`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT before_insert`); rbErr != nil {
			return rbErr
		}
		return err
	}
	_, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT before_insert`)
	return err
}

// isUniqueConstraintError checks whether err indicates a unique constraint
// violation. Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
