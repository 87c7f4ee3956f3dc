package store

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Pin represents a row in the pins table. The coordinate is immutable after
// creation; like_count is a denormalized cache of the likes table maintained
// by LikeStore inside the toggle transaction.
type Pin struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Latitude  float64    `db:"latitude"`
	Longitude float64    `db:"longitude"`
	Content   string     `db:"content"`
	IsPublic  bool       `db:"is_public"`
	LikeCount int64      `db:"like_count"`
	Deleted   bool       `db:"deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type PinStore struct {
	db  *sqlx.DB
	now Clock
}

func NewPinStore(db *sqlx.DB) *PinStore {
	return &PinStore{db: db, now: utcNow}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *PinStore) WithClock(c Clock) *PinStore {
	s.now = c
	return s
}

// q rebinds ? placeholders to the driver's native format.
func (s *PinStore) q(query string) string { return s.db.Rebind(query) }

// Create validates the coordinate and content, resolves the owner, and
// inserts a new pin.
func (s *PinStore) Create(ctx context.Context, ownerID string, lat, lon float64, content string, isPublic bool) (*Pin, error) {
	if err := ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	exists, err := userExists(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	id := uuid.New().String()
	now := s.now()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO pins (id, user_id, latitude, longitude, content, is_public, like_count, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, FALSE, ?, ?)
	`), id, ownerID, lat, lon, content, isPublic, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the pin matching id. Soft-deleted pins surface as
// ErrPinNotFound, same as missing rows.
func (s *PinStore) GetByID(ctx context.Context, id string) (*Pin, error) {
	var p Pin
	err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM pins WHERE id = ? AND deleted = FALSE`), id)
	if err == sql.ErrNoRows {
		return nil, ErrPinNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindWithinRadius returns pins within radiusMeters of (lat, lon), nearest
// first. The (latitude, longitude) index serves a bounding-box prefilter;
// the exact great-circle distance is checked in Go, so index order never
// leaks into the result contract.
func (s *PinStore) FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64, publicOnly bool) ([]*Pin, error) {
	if err := ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radiusMeters); err != nil {
		return nil, err
	}

	b := boundsForRadius(lat, lon, radiusMeters)
	query := `SELECT * FROM pins WHERE deleted = FALSE AND latitude BETWEEN ? AND ?`
	args := []interface{}{b.minLat, b.maxLat}
	if b.wrapsLon {
		query += ` AND (longitude >= ? OR longitude <= ?)`
	} else {
		query += ` AND longitude BETWEEN ? AND ?`
	}
	args = append(args, b.minLon, b.maxLon)
	if publicOnly {
		query += ` AND is_public = TRUE`
	}

	var candidates []*Pin
	if err := s.db.SelectContext(ctx, &candidates, s.q(query), args...); err != nil {
		return nil, err
	}

	type scored struct {
		pin  *Pin
		dist float64
	}
	within := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		d := haversineMeters(lat, lon, p.Latitude, p.Longitude)
		if d <= radiusMeters {
			within = append(within, scored{pin: p, dist: d})
		}
	}
	sort.Slice(within, func(i, j int) bool { return within[i].dist < within[j].dist })

	pins := make([]*Pin, len(within))
	for i, sc := range within {
		pins[i] = sc.pin
	}
	return pins, nil
}

// UpdateContent replaces the pin's content. The coordinate is never updated.
func (s *PinStore) UpdateContent(ctx context.Context, id, content string) (*Pin, error) {
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE pins SET content = ?, updated_at = ? WHERE id = ? AND deleted = FALSE
	`), content, s.now(), id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrPinNotFound
	}
	return s.GetByID(ctx, id)
}

// TogglePublic flips the pin's visibility flag and returns the updated pin.
func (s *PinStore) TogglePublic(ctx context.Context, id string) (*Pin, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE pins SET is_public = NOT is_public, updated_at = ? WHERE id = ? AND deleted = FALSE
	`), s.now(), id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrPinNotFound
	}
	return s.GetByID(ctx, id)
}

// SoftDelete tombstones a pin. Deleting an already-deleted pin is an error
// because GetByID no longer resolves it.
func (s *PinStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE pins SET deleted = TRUE, deleted_at = ? WHERE id = ? AND deleted = FALSE
	`), s.now(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPinNotFound
	}
	return nil
}

// ListByOwner returns the owner's non-deleted pins, newest first.
func (s *PinStore) ListByOwner(ctx context.Context, ownerID string) ([]*Pin, error) {
	var pins []*Pin
	err := s.db.SelectContext(ctx, &pins, s.q(`
		SELECT * FROM pins WHERE user_id = ? AND deleted = FALSE ORDER BY created_at DESC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// ListPublic returns all public non-deleted pins, newest first.
func (s *PinStore) ListPublic(ctx context.Context) ([]*Pin, error) {
	var pins []*Pin
	err := s.db.SelectContext(ctx, &pins, `
		SELECT * FROM pins WHERE is_public = TRUE AND deleted = FALSE ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return pins, nil
}

// Count returns the number of non-deleted pins.
func (s *PinStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pins WHERE deleted = FALSE`)
	return n, err
}

// IncrementLikeCount adjusts the denormalized like counter as a single
// server-side UPDATE so concurrent toggles never lose increments. It runs on
// the caller's transaction; LikeStore.Toggle is the only writer.
func (s *PinStore) IncrementLikeCount(ctx context.Context, ext sqlx.ExtContext, pinID string, delta int64) error {
	_, err := ext.ExecContext(ctx, ext.Rebind(`
		UPDATE pins SET like_count = like_count + ? WHERE id = ?
	`), delta, pinID)
	return err
}
