package store_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/pincoapp/pinco/internal/store"
	"github.com/pincoapp/pinco/internal/testutil"
)

// env bundles all stores over one shared test database.
type env struct {
	db        *sqlx.DB
	users     *store.UserStore
	pins      *store.PinStore
	tags      *store.TagStore
	pinTags   *store.PinTagStore
	bookmarks *store.BookmarkStore
	likes     *store.LikeStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	pins := store.NewPinStore(db)
	return &env{
		db:        db,
		users:     store.NewUserStore(db),
		pins:      pins,
		tags:      store.NewTagStore(db),
		pinTags:   store.NewPinTagStore(db),
		bookmarks: store.NewBookmarkStore(db),
		likes:     store.NewLikeStore(db, pins),
	}
}

func (e *env) seedUser(t *testing.T, email string) string {
	t.Helper()
	u, err := e.users.Create(context.Background(), email, "Test User")
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u.ID
}

func (e *env) seedPin(t *testing.T, ownerID string, lat, lon float64) *store.Pin {
	t.Helper()
	p, err := e.pins.Create(context.Background(), ownerID, lat, lon, "test pin", true)
	if err != nil {
		t.Fatalf("seed pin at (%v, %v): %v", lat, lon, err)
	}
	return p
}
