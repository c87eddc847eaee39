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
	restaurantEntity         = "Restaurant"
	restaurantDuplicateMsg   = "This restaurant is already in the database"
	restaurantNothingToApply = "Restaurant doesn't exist, or has nothing to be updated with"
)

// RestaurantService defines the restaurant use cases
type RestaurantService interface {
	List(ctx context.Context) ([]model.RestaurantWithStats, error)
	Get(ctx context.Context, id int64) (*model.RestaurantDetail, error)
	Create(ctx context.Context, input map[string]any) (*model.Restaurant, error)
	Update(ctx context.Context, id int64, input map[string]any) (*model.Restaurant, error)
	Delete(ctx context.Context, id int64) (*model.Restaurant, error)
}

type restaurantService struct {
	restaurants     repository.RestaurantRepository
	reviews         repository.ReviewRepository
	defaultImageURL string
}

// NewRestaurantService creates a new RestaurantService. defaultImageURL is
// stored for restaurants created without an image.
func NewRestaurantService(restaurants repository.RestaurantRepository, reviews repository.ReviewRepository, defaultImageURL string) RestaurantService {
	return &restaurantService{restaurants: restaurants, reviews: reviews, defaultImageURL: defaultImageURL}
}

func (s *restaurantService) List(ctx context.Context) ([]model.RestaurantWithStats, error) {
	restaurants, err := s.restaurants.FindAllWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *restaurantService) Get(ctx context.Context, id int64) (*model.RestaurantDetail, error) {
	rest, err := s.restaurants.FindWithStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if rest == nil {
		return nil, apperr.NotFound(restaurantEntity, id)
	}

	reviews, err := s.reviews.FindByRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant reviews: %w", err)
	}

	detail := &model.RestaurantDetail{RestaurantWithStats: *rest, Reviews: make([]model.RestaurantReview, 0, len(reviews))}
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, review.WithoutRestaurant())
	}
	return detail, nil
}

func (s *restaurantService) Create(ctx context.Context, input map[string]any) (*model.Restaurant, error) {
	values, err := validation.Restaurant.Validate(input, validation.Create)
	if err != nil {
		return nil, err
	}

	rest := &model.Restaurant{}
	rest.Name, _ = values.String("name")
	rest.Description, _ = values.String("description")
	rest.Location, _ = values.String("location")
	rest.Website, _ = values.String("website")
	if imageURL, ok := values.String("image_url"); ok {
		rest.ImageURL = imageURL
	} else {
		rest.ImageURL = s.defaultImageURL
	}

	if err := s.restaurants.Create(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(restaurantDuplicateMsg, err)
		}
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}
	return rest, nil
}

func (s *restaurantService) Update(ctx context.Context, id int64, input map[string]any) (*model.Restaurant, error) {
	values, err := validation.Restaurant.Validate(input, validation.Update)
	if errors.Is(err, validation.ErrNothingToUpdate) {
		return nil, apperr.Unchanged(restaurantNothingToApply)
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound(restaurantEntity, id)
	}

	patch := model.RestaurantPatch{
		Name:        values.StringPtr("name"),
		Description: values.StringPtr("description"),
		Location:    values.StringPtr("location"),
		Website:     values.StringPtr("website"),
		ImageURL:    values.StringPtr("image_url"),
	}
	updated, err := s.restaurants.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict(restaurantDuplicateMsg, err)
		}
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	if updated == nil {
		return nil, apperr.NotFound(restaurantEntity, id)
	}
	return updated, nil
}

// Delete removes the restaurant and its reviews and returns what was deleted.
func (s *restaurantService) Delete(ctx context.Context, id int64) (*model.Restaurant, error) {
	rest, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	if rest == nil {
		return nil, apperr.NotFound(restaurantEntity, id)
	}

	if _, err := s.reviews.DeleteByRestaurant(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete restaurant reviews: %w", err)
	}
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return rest, nil
}
