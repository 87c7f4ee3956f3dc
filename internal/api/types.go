package api

import (
	"time"

	"github.com/pincoapp/pinco/internal/store"
)

// CreatePinRequest is the body for POST /pins. Tags, when present, are
// bulk-linked as part of pin creation.
type CreatePinRequest struct {
	OwnerID   string   `json:"owner_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Content   string   `json:"content"`
	IsPublic  *bool    `json:"is_public"`
	Tags      []string `json:"tags"`
}

// PinResponse is the JSON shape for a pin.
type PinResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []string  `json:"tags,omitempty"`
}

func toPinResponse(p *store.Pin) *PinResponse {
	return &PinResponse{
		ID:        p.ID,
		OwnerID:   p.UserID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Content:   p.Content,
		IsPublic:  p.IsPublic,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// UpdatePinRequest is the body for PATCH /pins/{id}.
type UpdatePinRequest struct {
	Content string `json:"content"`
}

// PinListResponse wraps a list of pins.
type PinListResponse struct {
	Pins []*PinResponse `json:"pins"`
}

// TagResponse is the JSON shape for a tag.
type TagResponse struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}

func toTagResponse(t *store.Tag) *TagResponse {
	return &TagResponse{ID: t.ID, Keyword: t.Keyword, CreatedAt: t.CreatedAt}
}

// TagListResponse wraps a list of tags.
type TagListResponse struct {
	Tags []*TagResponse `json:"tags"`
}

// LinkTagRequest is the body for POST /pins/{id}/tags.
type LinkTagRequest struct {
	Keyword string `json:"keyword"`
}

// PinTagResponse is the JSON shape for a pin-tag link.
type PinTagResponse struct {
	ID        string    `json:"id"`
	PinID     string    `json:"pin_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBookmarkRequest is the body for POST /bookmarks.
type CreateBookmarkRequest struct {
	UserID string `json:"user_id"`
	PinID  string `json:"pin_id"`
}

// RestoreBookmarkRequest is the body for POST /bookmarks/{id}/restore.
type RestoreBookmarkRequest struct {
	UserID string `json:"user_id"`
}

// BookmarkResponse is the JSON shape for a bookmark.
type BookmarkResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PinID     string    `json:"pin_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookmarkResponse(b *store.Bookmark) *BookmarkResponse {
	return &BookmarkResponse{ID: b.ID, UserID: b.UserID, PinID: b.PinID, CreatedAt: b.CreatedAt}
}

// BookmarkListResponse wraps a list of bookmarks.
type BookmarkListResponse struct {
	Bookmarks []*BookmarkResponse `json:"bookmarks"`
}

// ToggleLikeRequest is the body for POST /pins/{id}/likes/toggle.
type ToggleLikeRequest struct {
	UserID string `json:"user_id"`
}

// CreateUserRequest is the body for POST /users.
type CreateUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// UserResponse is the JSON shape for a user.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *store.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}
