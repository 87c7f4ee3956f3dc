package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pincoapp/pinco/internal/store"
)

func TestTagStore_GetOrCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.tags.GetOrCreate(ctx, "cafe")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first.Keyword != "cafe" {
		t.Errorf("keyword = %q, want %q", first.Keyword, "cafe")
	}

	// A second call resolves to the same row.
	second, err := e.tags.GetOrCreate(ctx, "cafe")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call created a new tag: %q != %q", second.ID, first.ID)
	}
}

func TestTagStore_GetOrCreate_CaseSensitive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	lower, err := e.tags.GetOrCreate(ctx, "cafe")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	upper, err := e.tags.GetOrCreate(ctx, "Cafe")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if lower.ID == upper.ID {
		t.Error("case variants resolved to the same tag")
	}
}

func TestTagStore_GetOrCreate_Normalization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	trimmed, err := e.tags.GetOrCreate(ctx, "  brunch  ")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if trimmed.Keyword != "brunch" {
		t.Errorf("keyword = %q, want %q", trimmed.Keyword, "brunch")
	}

	if _, err := e.tags.GetOrCreate(ctx, "   "); !errors.Is(err, store.ErrInvalidKeyword) {
		t.Errorf("blank keyword err = %v, want ErrInvalidKeyword", err)
	}
	if _, err := e.tags.GetOrCreate(ctx, strings.Repeat("x", 51)); !errors.Is(err, store.ErrInvalidKeyword) {
		t.Errorf("long keyword err = %v, want ErrInvalidKeyword", err)
	}
	// 50 runes is the maximum allowed length.
	if _, err := e.tags.GetOrCreate(ctx, strings.Repeat("y", 50)); err != nil {
		t.Errorf("50-rune keyword rejected: %v", err)
	}
}

func TestTagStore_GetByKeyword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.tags.GetOrCreate(ctx, "sunset")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	got, err := e.tags.GetByKeyword(ctx, "sunset")
	if err != nil {
		t.Fatalf("GetByKeyword: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	if _, err := e.tags.GetByKeyword(ctx, "Sunset"); !errors.Is(err, store.ErrTagNotFound) {
		t.Errorf("case variant err = %v, want ErrTagNotFound", err)
	}
}

func TestTagStore_SearchByKeyword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, k := range []string{"coffee", "Coffeehouse", "tea"} {
		if _, err := e.tags.GetOrCreate(ctx, k); err != nil {
			t.Fatalf("GetOrCreate %q: %v", k, err)
		}
	}

	// Substring search is case-insensitive even though keywords are not.
	tags, err := e.tags.SearchByKeyword(ctx, "COFFEE")
	if err != nil {
		t.Fatalf("SearchByKeyword: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
}

func TestTagStore_ListAll(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for _, k := range []string{"zebra", "apple"} {
		if _, err := e.tags.GetOrCreate(ctx, k); err != nil {
			t.Fatalf("GetOrCreate %q: %v", k, err)
		}
	}
	tags, err := e.tags.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].Keyword != "apple" || tags[1].Keyword != "zebra" {
		t.Error("tags not ordered by keyword")
	}
}
