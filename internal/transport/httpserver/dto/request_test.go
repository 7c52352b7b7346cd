package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"paste-content-service/internal/validator"
)

func newTestValidator() *validator.Validator {
	return validator.New()
}

func intPtr(n int) *int { return &n }

func TestCreatePostRequest_Validation_Valid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  CreatePostRequest
	}{
		{
			name: "minimal valid request",
			req:  CreatePostRequest{Title: "t", Content: "c", UserID: 1},
		},
		{
			name: "with expiry",
			req:  CreatePostRequest{Title: "t", Content: "c", UserID: 1, ExpiresInDays: intPtr(7)},
		},
		{
			name: "max expiry",
			req:  CreatePostRequest{Title: "t", Content: "c", UserID: 1, ExpiresInDays: intPtr(365)},
		},
		{
			name: "title at max length",
			req:  CreatePostRequest{Title: strings.Repeat("a", 200), Content: "c", UserID: 1},
		},
		{
			name: "with summary",
			req:  CreatePostRequest{Title: "t", Content: "c", Summary: "s", UserID: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(&tt.req))
		})
	}
}

func TestCreatePostRequest_Validation_Invalid(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		req  CreatePostRequest
	}{
		{
			name: "missing title",
			req:  CreatePostRequest{Content: "c", UserID: 1},
		},
		{
			name: "missing content",
			req:  CreatePostRequest{Title: "t", UserID: 1},
		},
		{
			name: "missing user id",
			req:  CreatePostRequest{Title: "t", Content: "c"},
		},
		{
			name: "title too long",
			req:  CreatePostRequest{Title: strings.Repeat("a", 201), Content: "c", UserID: 1},
		},
		{
			name: "zero expiry days",
			req:  CreatePostRequest{Title: "t", Content: "c", UserID: 1, ExpiresInDays: intPtr(0)},
		},
		{
			name: "expiry over a year",
			req:  CreatePostRequest{Title: "t", Content: "c", UserID: 1, ExpiresInDays: intPtr(366)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate(&tt.req))
		})
	}
}

func TestCreatePostRequest_ToCreateInput(t *testing.T) {
	req := CreatePostRequest{
		Title:         "snippet",
		Content:       "body",
		Summary:       "sum",
		UserID:        7,
		ExpiresInDays: intPtr(30),
	}

	in := req.ToCreateInput()
	assert.Equal(t, "snippet", in.Title)
	assert.Equal(t, "body", in.Content)
	assert.Equal(t, "sum", in.Summary)
	assert.Equal(t, 7, in.UserID)
	assert.Equal(t, 30, *in.ExpiresInDays)
}

func TestReviewRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&ReviewRequest{UserID: 1, Grade: 1}))
	assert.NoError(t, v.Validate(&ReviewRequest{UserID: 1, Grade: 5}))
	assert.Error(t, v.Validate(&ReviewRequest{UserID: 1, Grade: 0}))
	assert.Error(t, v.Validate(&ReviewRequest{UserID: 1, Grade: 6}))
	assert.Error(t, v.Validate(&ReviewRequest{Grade: 3}))
}

func TestRestorePostRequest_Validation(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Validate(&RestorePostRequest{}))
	assert.NoError(t, v.Validate(&RestorePostRequest{Days: intPtr(7)}))
	assert.Error(t, v.Validate(&RestorePostRequest{Days: intPtr(0)}))
	assert.Error(t, v.Validate(&RestorePostRequest{Days: intPtr(400)}))
}
