// Package domain contains the core business logic and entities.
package domain

import "math"

// Rating bounds and formula weights.
const (
	RatingMin = 1
	RatingMax = 5

	// DefaultGrade is the neutral average grade for posts with no reviews.
	DefaultGrade = 1.0

	gradeWeight = 0.7
	likesWeight = 0.2
	viewsWeight = 0.1
)

// NormalizeCount maps a counter onto the [1,5] rating scale relative to the
// run-wide maximum. A zero or negative maximum yields the scale floor.
func NormalizeCount(count, max int) float64 {
	if max <= 0 {
		return 1
	}
	return 1 + (float64(count)/float64(max))*4
}

// ComputeRating computes a post's rating from its like count, view count,
// the run-wide maxima, and the average user grade.
//
// Formula:
//
//	normalizedLikes = 1 + (likes/maxLikes) * 4
//	normalizedViews = 1 + (views/maxViews) * 4
//	raw = 0.7*avgGrade + 0.2*normalizedLikes + 0.1*normalizedViews
//	rating = clamp(round(raw), 1, 5)
func ComputeRating(likes, views, maxLikes, maxViews int, avgGrade float64) int {
	raw := gradeWeight*avgGrade +
		likesWeight*NormalizeCount(likes, maxLikes) +
		viewsWeight*NormalizeCount(views, maxViews)

	rating := int(math.Round(raw))
	if rating < RatingMin {
		return RatingMin
	}
	if rating > RatingMax {
		return RatingMax
	}
	return rating
}
