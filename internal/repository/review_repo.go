package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_reviews/internal/model"

	"github.com/jackc/pgx/v5"
)

// ReviewRepository defines operations for review data
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	FindAll(ctx context.Context) ([]model.Review, error)
	FindByRestaurant(ctx context.Context, restaurantID int64) ([]model.Review, error)
	Update(ctx context.Context, id int64, patch model.ReviewPatch) (*model.Review, error)
	Delete(ctx context.Context, id int64) error
	DeleteByRestaurant(ctx context.Context, restaurantID int64) (int64, error)
}

type reviewRepository struct {
	db DBTX
}

// NewReviewRepository creates a ReviewRepository backed by PostgreSQL
func NewReviewRepository(db DBTX) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, rating, review, name, restaurant_id, created_at, updated_at`

func scanReview(row pgx.Row, r *model.Review) error {
	return row.Scan(&r.ID, &r.Rating, &r.Review, &r.Name, &r.RestaurantID, &r.CreatedAt, &r.UpdatedAt)
}

// Create inserts a new review
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) (err error) {
	defer observe("insert", "reviews", time.Now(), &err)

	sql := `INSERT INTO reviews (rating, review, name, restaurant_id)
            VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	err = r.db.QueryRow(ctx, sql, review.Rating, review.Review, review.Name, review.RestaurantID).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// FindByID retrieves a review by its ID
func (r *reviewRepository) FindByID(ctx context.Context, id int64) (_ *model.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)

	review := &model.Review{}
	sql := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	if err = scanReview(r.db.QueryRow(ctx, sql, id), review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return review, nil
}

// FindAll lists every review
func (r *reviewRepository) FindAll(ctx context.Context) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
}

// FindByRestaurant lists the reviews of one restaurant
func (r *reviewRepository) FindByRestaurant(ctx context.Context, restaurantID int64) ([]model.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
}

func (r *reviewRepository) list(ctx context.Context, sql string, args ...interface{}) (_ []model.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var review model.Review
		if err = scanReview(rows, &review); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// Update applies the non-nil fields of patch and returns the updated row
func (r *reviewRepository) Update(ctx context.Context, id int64, patch model.ReviewPatch) (_ *model.Review, err error) {
	defer observe("update", "reviews", time.Now(), &err)

	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE reviews SET updated_at = NOW()")
	args := []interface{}{}
	argCount := 1

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argCount))
		args = append(args, *value)
		argCount++
	}
	set("rating", patch.Rating)
	set("review", patch.Review)
	set("name", patch.Name)

	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d RETURNING %s", argCount, reviewColumns))
	args = append(args, id)

	review := &model.Review{}
	if err = scanReview(r.db.QueryRow(ctx, queryBuilder.String(), args...), review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// Delete removes a single review
func (r *reviewRepository) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete", "reviews", time.Now(), &err)

	if _, err = r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// DeleteByRestaurant removes every review of a restaurant and reports how many went
func (r *reviewRepository) DeleteByRestaurant(ctx context.Context, restaurantID int64) (_ int64, err error) {
	defer observe("delete", "reviews", time.Now(), &err)

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE restaurant_id = $1`, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews of restaurant: %w", err)
	}
	return tag.RowsAffected(), nil
}
