package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant_reviews/internal/apperr"
	"restaurant_reviews/internal/model"
	"restaurant_reviews/internal/repository"
	"restaurant_reviews/internal/validation"
)

const (
	reviewEntity         = "Review"
	reviewNothingToApply = "Review doesn't exist, or has nothing to be updated with"
)

// ReviewService defines the review use cases
type ReviewService interface {
	List(ctx context.Context) ([]model.Review, error)
	Get(ctx context.Context, id int64) (*model.Review, error)
	ListForRestaurant(ctx context.Context, restaurantID int64) (*model.RestaurantReviews, error)
	Create(ctx context.Context, input map[string]any, author *model.User) (*model.ReviewWithRestaurant, error)
	Update(ctx context.Context, id int64, input map[string]any) (*model.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewService struct {
	reviews     repository.ReviewRepository
	restaurants repository.RestaurantRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews repository.ReviewRepository, restaurants repository.RestaurantRepository) ReviewService {
	return &reviewService{reviews: reviews, restaurants: restaurants}
}

func (s *reviewService) List(ctx context.Context) ([]model.Review, error) {
	reviews, err := s.reviews.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, apperr.NotFound(reviewEntity, id)
	}
	return review, nil
}

func (s *reviewService) ListForRestaurant(ctx context.Context, restaurantID int64) (*model.RestaurantReviews, error) {
	rest, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if rest == nil {
		return nil, apperr.NotFound(restaurantEntity, restaurantID)
	}

	reviews, err := s.reviews.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant reviews: %w", err)
	}

	out := &model.RestaurantReviews{
		Restaurant: rest.Summary(),
		Reviews:    make([]model.RestaurantReview, 0, len(reviews)),
		Count:      len(reviews),
	}
	for _, review := range reviews {
		out.Reviews = append(out.Reviews, review.WithoutRestaurant())
	}
	return out, nil
}

// Create checks the target restaurant exists before looking at the rest of
// the body, so a review for a missing restaurant is a 404 even when its own
// fields are invalid.
func (s *reviewService) Create(ctx context.Context, input map[string]any, author *model.User) (*model.ReviewWithRestaurant, error) {
	ref, err := validation.Review.Pick("restaurant_id").Validate(input, validation.Create)
	if err != nil {
		return nil, err
	}
	restaurantID, _ := ref.Int64("restaurant_id")

	rest, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if rest == nil {
		return nil, apperr.NotFound(restaurantEntity, restaurantID)
	}

	values, err := validation.Review.Validate(input, validation.Create)
	if err != nil {
		return nil, err
	}

	review := &model.Review{RestaurantID: restaurantID}
	review.Rating, _ = values.String("rating")
	review.Review, _ = values.String("review")
	if name, ok := values.String("name"); ok {
		review.Name = name
	} else if author != nil {
		review.Name = author.Username
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &model.ReviewWithRestaurant{
		Review:     *review,
		Restaurant: model.RestaurantRef{Name: rest.Name, Description: rest.Description},
	}, nil
}

func (s *reviewService) Update(ctx context.Context, id int64, input map[string]any) (*model.Review, error) {
	values, err := validation.Review.Validate(input, validation.Update)
	if errors.Is(err, validation.ErrNothingToUpdate) {
		return nil, apperr.Unchanged(reviewNothingToApply)
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound(reviewEntity, id)
	}

	patch := model.ReviewPatch{
		Rating: values.StringPtr("rating"),
		Review: values.StringPtr("review"),
		Name:   values.StringPtr("name"),
	}
	updated, err := s.reviews.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound(reviewEntity, id)
	}
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return apperr.NotFound(reviewEntity, id)
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
