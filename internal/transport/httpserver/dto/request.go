// Package dto defines request and response payloads for the HTTP API.
package dto

import (
	"paste-content-service/internal/app/service"
)

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=1048576"`
	Summary string   `json:"summary" validate:"max=500"`
	Tags    []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	UserID  int      `json:"user_id" validate:"required,min=1"`

	// ExpiresInDays omitted means the post never expires.
	ExpiresInDays *int `json:"expires_in_days" validate:"omitempty,min=1,max=365"`
}

// ToCreateInput converts the request to the service input.
func (r *CreatePostRequest) ToCreateInput() service.CreateInput {
	return service.CreateInput{
		Title:         r.Title,
		Content:       r.Content,
		Summary:       r.Summary,
		Tags:          r.Tags,
		UserID:        r.UserID,
		ExpiresInDays: r.ExpiresInDays,
	}
}

// RestorePostRequest is the payload for restoring a soft-deleted post.
type RestorePostRequest struct {
	// Days omitted preserves the lifetime remaining at deletion time.
	Days *int `json:"days" validate:"omitempty,min=1,max=365"`
}

// LikeRequest is the payload for liking or unliking a post.
type LikeRequest struct {
	UserID int `json:"user_id" validate:"required,min=1"`
}

// ReviewRequest is the payload for reviewing a post.
type ReviewRequest struct {
	UserID int `json:"user_id" validate:"required,min=1"`
	Grade  int `json:"grade" validate:"required,min=1,max=5"`
}
