package model

import (
	"math"
	"time"
)

// Restaurant represents a reviewed venue
type Restaurant struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RestaurantWithStats carries the aggregates computed over the restaurant's reviews.
// Rating is nil when the restaurant has no reviews.
type RestaurantWithStats struct {
	Restaurant
	ReviewCount int64    `json:"review_count"`
	Rating      *float64 `json:"rating"`
}

// RestaurantDetail is the single-restaurant shape with its reviews embedded.
type RestaurantDetail struct {
	RestaurantWithStats
	Reviews []RestaurantReview `json:"reviews"`
}

// RestaurantSummary is the trimmed shape returned next to a restaurant's reviews.
type RestaurantSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RestaurantPatch holds the fields of a partial update. Nil means "leave as is".
type RestaurantPatch struct {
	Name        *string
	Description *string
	Location    *string
	Website     *string
	ImageURL    *string
}

// Summary trims the restaurant down to id, name and description.
func (r *Restaurant) Summary() RestaurantSummary {
	return RestaurantSummary{ID: r.ID, Name: r.Name, Description: r.Description}
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
