package dto

import (
	"time"

	"paste-content-service/internal/domain"
)

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Hash    string   `json:"hash,omitempty"`
	Content string   `json:"content"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	UserID  int      `json:"user_id"`

	Views  int `json:"views"`
	Likes  int `json:"likes"`
	Rating int `json:"rating"`

	IsDeleted bool   `json:"is_deleted,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	DeletedAt string `json:"deleted_at,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromDomainPost converts domain.Post to PostResponse.
func FromDomainPost(p *domain.Post) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Hash:      p.Hash,
		Content:   p.Content,
		Summary:   p.Summary,
		Tags:      p.Tags,
		UserID:    p.UserID,
		Views:     p.ViewsCount,
		Likes:     p.LikesCount,
		Rating:    p.Rating,
		IsDeleted: p.IsDeleted,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
	if p.ExpiresAt != nil {
		resp.ExpiresAt = p.ExpiresAt.Format(time.RFC3339)
	}
	if p.DeletedAt != nil {
		resp.DeletedAt = p.DeletedAt.Format(time.RFC3339)
	}
	return resp
}

// PostListResponse represents a list of posts.
type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Count int            `json:"count"`
}

// FromDomainPosts converts a slice of domain posts.
func FromDomainPosts(posts []*domain.Post) PostListResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = FromDomainPost(p)
	}
	return PostListResponse{Posts: out, Count: len(out)}
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID        int    `json:"id"`
	PostID    int    `json:"post_id"`
	UserID    int    `json:"user_id"`
	Grade     int    `json:"grade"`
	CreatedAt string `json:"created_at"`
}

// FromDomainReview converts domain.Review to ReviewResponse.
func FromDomainReview(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		PostID:    r.PostID,
		UserID:    r.UserID,
		Grade:     r.Grade,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// ReviewListResponse represents a list of reviews.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Count   int              `json:"count"`
}

// FromDomainReviews converts a slice of domain reviews.
func FromDomainReviews(reviews []*domain.Review) ReviewListResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = FromDomainReview(r)
	}
	return ReviewListResponse{Reviews: out, Count: len(out)}
}

// LikedPostsResponse lists the post ids a user has liked.
type LikedPostsResponse struct {
	PostIDs []int `json:"post_ids"`
}

// BulkResponse reports how many posts a bulk operation touched.
type BulkResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}
