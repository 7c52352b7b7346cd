package domain

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func TestNormalizeCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		max      int
		expected float64
	}{
		{name: "zero max yields floor", count: 50, max: 0, expected: 1},
		{name: "negative max yields floor", count: 50, max: -1, expected: 1},
		{name: "zero count", count: 0, max: 100, expected: 1},
		{name: "max count yields ceiling", count: 100, max: 100, expected: 5},
		{name: "half of max", count: 50, max: 100, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCount(tt.count, tt.max)
			if math.Abs(got-tt.expected) > floatTolerance {
				t.Errorf("NormalizeCount(%d, %d) = %v, want %v", tt.count, tt.max, got, tt.expected)
			}
		})
	}
}

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name     string
		likes    int
		views    int
		maxLikes int
		maxViews int
		avgGrade float64
		expected int
	}{
		{
			name:  "no activity at all",
			likes: 0, views: 0, maxLikes: 0, maxViews: 0,
			avgGrade: DefaultGrade,
			// 0.7*1 + 0.2*1 + 0.1*1 = 1.0
			expected: 1,
		},
		{
			name:  "top post with top grade",
			likes: 100, views: 1000, maxLikes: 100, maxViews: 1000,
			avgGrade: 5.0,
			// 0.7*5 + 0.2*5 + 0.1*5 = 5.0
			expected: 5,
		},
		{
			name:  "mid post with mid grade",
			likes: 50, views: 500, maxLikes: 100, maxViews: 1000,
			avgGrade: 3.0,
			// 0.7*3 + 0.2*3 + 0.1*3 = 3.0
			expected: 3,
		},
		{
			name:  "grade dominates counters",
			likes: 0, views: 0, maxLikes: 100, maxViews: 1000,
			avgGrade: 5.0,
			// 0.7*5 + 0.2*1 + 0.1*1 = 3.8 -> 4
			expected: 4,
		},
		{
			name:  "counters alone cannot reach top rating",
			likes: 100, views: 1000, maxLikes: 100, maxViews: 1000,
			avgGrade: DefaultGrade,
			// 0.7*1 + 0.2*5 + 0.1*5 = 2.2 -> 2
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRating(tt.likes, tt.views, tt.maxLikes, tt.maxViews, tt.avgGrade)
			if got != tt.expected {
				t.Errorf("ComputeRating() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestComputeRating_AlwaysInBounds(t *testing.T) {
	for likes := 0; likes <= 200; likes += 50 {
		for _, grade := range []float64{0, 1, 2.5, 5, 10} {
			got := ComputeRating(likes, likes*10, 100, 1000, grade)
			if got < RatingMin || got > RatingMax {
				t.Errorf("ComputeRating(likes=%d, grade=%v) = %d, out of [1,5]", likes, grade, got)
			}
		}
	}
}
