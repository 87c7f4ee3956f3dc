package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pincoapp/pinco/internal/api"
	"github.com/pincoapp/pinco/internal/store"
	"github.com/pincoapp/pinco/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.NewTestDB(t)
	pins := store.NewPinStore(db)
	return api.NewRouter(api.Deps{
		Pins:                pins,
		Tags:                store.NewTagStore(db),
		PinTags:             store.NewPinTagStore(db),
		Bookmarks:           store.NewBookmarkStore(db),
		Likes:               store.NewLikeStore(db, pins),
		Users:               store.NewUserStore(db),
		RequestTimeout:      5 * time.Second,
		DefaultRadiusMeters: 1000,
	})
}

// do sends a JSON request through the router and decodes the response body
// into out when it is non-nil.
func do(t *testing.T, h http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec
}

func createUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	var user api.UserResponse
	rec := do(t, h, http.MethodPost, "/users", api.CreateUserRequest{Email: email, DisplayName: "Tester"}, &user)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d", rec.Code)
	}
	return user.ID
}

func createPin(t *testing.T, h http.Handler, ownerID string, lat, lon float64, tags []string) *api.PinResponse {
	t.Helper()
	var pin api.PinResponse
	rec := do(t, h, http.MethodPost, "/pins", api.CreatePinRequest{
		OwnerID:   ownerID,
		Latitude:  lat,
		Longitude: lon,
		Content:   "a place",
		Tags:      tags,
	}, &pin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pin: status %d", rec.Code)
	}
	return &pin
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d", rec.Code, status)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
}

func TestRouter_PinLifecycle(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")

	pin := createPin(t, h, owner, 37.5665, 126.9780, []string{"cafe", "brunch"})
	if len(pin.Tags) != 2 {
		t.Errorf("got %d tags on created pin, want 2", len(pin.Tags))
	}

	var got api.PinResponse
	rec := do(t, h, http.MethodGet, "/pins/"+pin.ID, nil, &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("get pin: status %d", rec.Code)
	}
	if got.ID != pin.ID || got.OwnerID != owner {
		t.Errorf("got pin %+v", got)
	}

	rec = do(t, h, http.MethodDelete, "/pins/"+pin.ID, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete pin: status %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/pins/"+pin.ID, nil, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "PIN_NOT_FOUND")
}

func TestRouter_CreatePin_Errors(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")

	rec := do(t, h, http.MethodPost, "/pins", api.CreatePinRequest{
		OwnerID: owner, Latitude: 91, Longitude: 0, Content: "x",
	}, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")

	rec = do(t, h, http.MethodPost, "/pins", api.CreatePinRequest{
		OwnerID: "no-such-user", Latitude: 0, Longitude: 0, Content: "x",
	}, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "USER_NOT_FOUND")
}

// A bad tag keyword must reject the request before the pin is written.
func TestRouter_CreatePin_InvalidTagKeyword(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")

	rec := do(t, h, http.MethodPost, "/pins", api.CreatePinRequest{
		OwnerID: owner, Latitude: 1, Longitude: 1, Content: "x",
		Tags: []string{"cafe", "   "},
	}, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")

	var list api.PinListResponse
	rec = do(t, h, http.MethodGet, "/users/"+owner+"/pins", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("list pins: status %d", rec.Code)
	}
	if len(list.Pins) != 0 {
		t.Errorf("got %d pins after rejected create, want 0", len(list.Pins))
	}
}

func TestRouter_Nearby(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")
	near := createPin(t, h, owner, 37.5700, 126.9800, nil)
	createPin(t, h, owner, 37.5850, 126.9780, nil) // ~2km out

	var list api.PinListResponse
	rec := do(t, h, http.MethodGet, "/pins/nearby?lat=37.5665&lon=126.9780&radius=1000", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("nearby: status %d", rec.Code)
	}
	if len(list.Pins) != 1 || list.Pins[0].ID != near.ID {
		t.Errorf("got %d pins, want the near pin only", len(list.Pins))
	}

	rec = do(t, h, http.MethodGet, "/pins/nearby?lat=abc&lon=0", nil, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")

	// ParseFloat accepts "NaN", so the coordinate validator has to catch it.
	rec = do(t, h, http.MethodGet, "/pins/nearby?lat=NaN&lon=0", nil, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")

	rec = do(t, h, http.MethodGet, "/pins/nearby?lat=0&lon=0&radius=-1", nil, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
}

func TestRouter_TagLinking(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")
	pin := createPin(t, h, owner, 1, 1, nil)

	var link api.PinTagResponse
	rec := do(t, h, http.MethodPost, "/pins/"+pin.ID+"/tags", api.LinkTagRequest{Keyword: "cafe"}, &link)
	if rec.Code != http.StatusCreated {
		t.Fatalf("link tag: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/pins/"+pin.ID+"/tags", api.LinkTagRequest{Keyword: "cafe"}, nil)
	assertErrorCode(t, rec, http.StatusConflict, "TAG_ALREADY_LINKED")

	rec = do(t, h, http.MethodDelete, "/pins/"+pin.ID+"/tags/"+link.TagID, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unlink: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/pins/%s/tags/%s/restore", pin.ID, link.TagID), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("restore: status %d", rec.Code)
	}

	var tags api.TagListResponse
	rec = do(t, h, http.MethodGet, "/pins/"+pin.ID+"/tags", nil, &tags)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tags: status %d", rec.Code)
	}
	if len(tags.Tags) != 1 || tags.Tags[0].Keyword != "cafe" {
		t.Errorf("tags = %+v, want [cafe]", tags.Tags)
	}
}

func TestRouter_TagSearch(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")
	createPin(t, h, owner, 1, 1, []string{"coffee", "tea"})

	var tags api.TagListResponse
	rec := do(t, h, http.MethodGet, "/tags?q=cof", nil, &tags)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d", rec.Code)
	}
	if len(tags.Tags) != 1 || tags.Tags[0].Keyword != "coffee" {
		t.Errorf("tags = %+v, want [coffee]", tags.Tags)
	}
}

func TestRouter_Bookmarks(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")
	reader := createUser(t, h, "reader@example.com")
	pin := createPin(t, h, owner, 1, 1, nil)

	var bm api.BookmarkResponse
	rec := do(t, h, http.MethodPost, "/bookmarks", api.CreateBookmarkRequest{UserID: reader, PinID: pin.ID}, &bm)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bookmark: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/bookmarks", api.CreateBookmarkRequest{UserID: reader, PinID: pin.ID}, nil)
	assertErrorCode(t, rec, http.StatusConflict, "BOOKMARK_EXISTS")

	// Another caller's delete masks as not found.
	rec = do(t, h, http.MethodDelete, "/bookmarks/"+bm.ID+"?user_id="+owner, nil, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "BOOKMARK_NOT_FOUND")

	rec = do(t, h, http.MethodDelete, "/bookmarks/"+bm.ID+"?user_id="+reader, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete bookmark: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/bookmarks/"+bm.ID+"/restore", api.RestoreBookmarkRequest{UserID: reader}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("restore bookmark: status %d", rec.Code)
	}

	var list api.BookmarkListResponse
	rec = do(t, h, http.MethodGet, "/users/"+reader+"/bookmarks", nil, &list)
	if rec.Code != http.StatusOK {
		t.Fatalf("list bookmarks: status %d", rec.Code)
	}
	if len(list.Bookmarks) != 1 || list.Bookmarks[0].ID != bm.ID {
		t.Errorf("bookmarks = %+v, want the restored one", list.Bookmarks)
	}
}

func TestRouter_Likes(t *testing.T) {
	h := newTestRouter(t)
	owner := createUser(t, h, "owner@example.com")
	liker := createUser(t, h, "liker@example.com")
	pin := createPin(t, h, owner, 1, 1, nil)

	var res store.ToggleResult
	rec := do(t, h, http.MethodPost, "/pins/"+pin.ID+"/likes/toggle", api.ToggleLikeRequest{UserID: liker}, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", rec.Code)
	}
	if !res.Liked || res.LikeCount != 1 {
		t.Errorf("toggle = {%v, %d}, want {true, 1}", res.Liked, res.LikeCount)
	}

	rec = do(t, h, http.MethodPost, "/pins/"+pin.ID+"/likes/toggle", api.ToggleLikeRequest{UserID: liker}, &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", rec.Code)
	}
	if res.Liked || res.LikeCount != 0 {
		t.Errorf("toggle = {%v, %d}, want {false, 0}", res.Liked, res.LikeCount)
	}

	rec = do(t, h, http.MethodPost, "/pins/no-such-pin/likes/toggle", api.ToggleLikeRequest{UserID: liker}, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "PIN_NOT_FOUND")
}

func TestRouter_Users(t *testing.T) {
	h := newTestRouter(t)

	id := createUser(t, h, "someone@example.com")

	rec := do(t, h, http.MethodPost, "/users", api.CreateUserRequest{Email: "someone@example.com"}, nil)
	assertErrorCode(t, rec, http.StatusConflict, "EMAIL_TAKEN")

	var user api.UserResponse
	rec = do(t, h, http.MethodGet, "/users/"+id, nil, &user)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: status %d", rec.Code)
	}
	if user.Email != "someone@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	rec = do(t, h, http.MethodGet, "/users/no-such-user", nil, nil)
	assertErrorCode(t, rec, http.StatusNotFound, "USER_NOT_FOUND")
}
