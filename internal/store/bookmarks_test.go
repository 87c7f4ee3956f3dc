package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pincoapp/pinco/internal/store"
)

func TestBookmarkStore_Create(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.seedUser(t, "reader@example.com")
	pin := e.seedPin(t, userID, 37.5665, 126.9780)

	bm, err := e.bookmarks.Create(ctx, userID, pin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if bm.UserID != userID || bm.PinID != pin.ID {
		t.Errorf("bookmark pair = (%q, %q), want (%q, %q)", bm.UserID, bm.PinID, userID, pin.ID)
	}

	// The pair already has an active bookmark.
	if _, err := e.bookmarks.Create(ctx, userID, pin.ID); !errors.Is(err, store.ErrBookmarkExists) {
		t.Errorf("duplicate err = %v, want ErrBookmarkExists", err)
	}
}

func TestBookmarkStore_Create_UnknownReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.seedUser(t, "reader@example.com")
	pin := e.seedPin(t, userID, 1, 1)

	if _, err := e.bookmarks.Create(ctx, "no-such-user", pin.ID); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
	if _, err := e.bookmarks.Create(ctx, userID, "no-such-pin"); !errors.Is(err, store.ErrPinNotFound) {
		t.Errorf("err = %v, want ErrPinNotFound", err)
	}
}

// Re-bookmarking a removed pin revives the original row instead of making a
// second one.
func TestBookmarkStore_RestoreOnCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.seedUser(t, "reader@example.com")
	pin := e.seedPin(t, userID, 37.5665, 126.9780)

	first, err := e.bookmarks.Create(ctx, userID, pin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := e.bookmarks.Delete(ctx, userID, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	second, err := e.bookmarks.Create(ctx, userID, pin.ID)
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-create made a new row: %q != %q", second.ID, first.ID)
	}
	if second.Deleted {
		t.Error("revived bookmark still marked deleted")
	}
}

func TestBookmarkStore_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.seedUser(t, "reader@example.com")
	pin := e.seedPin(t, userID, 1, 1)

	bm, err := e.bookmarks.Create(ctx, userID, pin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := e.bookmarks.Delete(ctx, userID, "no-such-bookmark"); !errors.Is(err, store.ErrBookmarkNotFound) {
		t.Errorf("err = %v, want ErrBookmarkNotFound", err)
	}
	if err := e.bookmarks.Delete(ctx, userID, bm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting again is a quiet success.
	if err := e.bookmarks.Delete(ctx, userID, bm.ID); err != nil {
		t.Errorf("repeat Delete: %v", err)
	}

	list, err := e.bookmarks.ListActive(ctx, userID)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("got %d active bookmarks, want 0", len(list))
	}
}

// Another user's bookmark looks exactly like a missing one, and failed
// attempts leave it untouched.
func TestBookmarkStore_OwnershipMasking(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.seedUser(t, "alice@example.com")
	mallory := e.seedUser(t, "mallory@example.com")
	pin := e.seedPin(t, alice, 1, 1)

	bm, err := e.bookmarks.Create(ctx, alice, pin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := e.bookmarks.Delete(ctx, mallory, bm.ID); !errors.Is(err, store.ErrBookmarkNotFound) {
		t.Errorf("cross-user Delete err = %v, want ErrBookmarkNotFound", err)
	}
	if err := e.bookmarks.Restore(ctx, mallory, bm.ID); !errors.Is(err, store.ErrBookmarkNotFound) {
		t.Errorf("cross-user Restore err = %v, want ErrBookmarkNotFound", err)
	}
	if _, err := e.bookmarks.GetByID(ctx, mallory, bm.ID); !errors.Is(err, store.ErrBookmarkNotFound) {
		t.Errorf("cross-user GetByID err = %v, want ErrBookmarkNotFound", err)
	}

	// Alice's bookmark is still active.
	got, err := e.bookmarks.GetByID(ctx, alice, bm.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Deleted {
		t.Error("bookmark mutated by cross-user attempts")
	}
}

func TestBookmarkStore_Restore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := e.seedUser(t, "reader@example.com")
	pin := e.seedPin(t, userID, 1, 1)

	bm, err := e.bookmarks.Create(ctx, userID, pin.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := e.bookmarks.Restore(ctx, userID, bm.ID); !errors.Is(err, store.ErrBookmarkActive) {
		t.Errorf("restore of active bookmark err = %v, want ErrBookmarkActive", err)
	}

	if err := e.bookmarks.Delete(ctx, userID, bm.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := e.bookmarks.Restore(ctx, userID, bm.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	list, err := e.bookmarks.ListActive(ctx, userID)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 1 || list[0].ID != bm.ID {
		t.Error("restored bookmark not listed as active")
	}
}

func TestBookmarkStore_ListActive_UnknownUser(t *testing.T) {
	e := newEnv(t)

	_, err := e.bookmarks.ListActive(context.Background(), "no-such-user")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
