package model

import "time"

// Valid review ratings, stored as text
var Ratings = []string{"1", "2", "3", "4", "5"}

// Review represents a user's review of a restaurant
type Review struct {
	ID           int64     `json:"id"`
	Rating       string    `json:"rating"`
	Review       string    `json:"review"`
	Name         string    `json:"name"`
	RestaurantID int64     `json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RestaurantReview is a review embedded under its restaurant, so the
// foreign key column is left out.
type RestaurantReview struct {
	ID        int64     `json:"id"`
	Rating    string    `json:"rating"`
	Review    string    `json:"review"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RestaurantRef is the part of the parent restaurant joined into a created review.
type RestaurantRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ReviewWithRestaurant is the shape returned after creating a review.
type ReviewWithRestaurant struct {
	Review
	Restaurant RestaurantRef `json:"restaurant"`
}

// ReviewPatch holds the fields of a partial review update.
type ReviewPatch struct {
	Rating *string
	Review *string
	Name   *string
}

// WithoutRestaurant drops the foreign key for embedding under a restaurant.
func (r Review) WithoutRestaurant() RestaurantReview {
	return RestaurantReview{
		ID:        r.ID,
		Rating:    r.Rating,
		Review:    r.Review,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RestaurantReviews is the listing of one restaurant's reviews.
type RestaurantReviews struct {
	Restaurant RestaurantSummary  `json:"restaurant"`
	Reviews    []RestaurantReview `json:"reviews"`
	Count      int                `json:"count"`
}
