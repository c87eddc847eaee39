package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_reviews/internal/model"

	"gorm.io/gorm"
)

type gormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a RestaurantRepository backed by gorm
func NewGormRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &gormRestaurantRepository{db: db}
}

type reviewStats struct {
	RestaurantID int64
	ReviewCount  int64
	Rating       *float64
}

func (r *gormRestaurantRepository) stats(ctx context.Context, restaurantIDs ...int64) (map[int64]reviewStats, error) {
	var rows []reviewStats
	q := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Select("restaurant_id, COUNT(id) AS review_count, AVG(CAST(rating AS REAL)) AS rating").
		Group("restaurant_id")
	if len(restaurantIDs) > 0 {
		q = q.Where("restaurant_id IN ?", restaurantIDs)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]reviewStats, len(rows))
	for _, row := range rows {
		if row.Rating != nil {
			rounded := model.RoundRating(*row.Rating)
			row.Rating = &rounded
		}
		byID[row.RestaurantID] = row
	}
	return byID, nil
}

func withStats(rec *restaurantRecord, stats map[int64]reviewStats) model.RestaurantWithStats {
	s := stats[rec.ID]
	return model.RestaurantWithStats{Restaurant: rec.toModel(), ReviewCount: s.ReviewCount, Rating: s.Rating}
}

func (r *gormRestaurantRepository) Create(ctx context.Context, rest *model.Restaurant) (err error) {
	defer observe("insert", "restaurants", time.Now(), &err)

	rec := restaurantRecord{
		Name:        rest.Name,
		Description: rest.Description,
		Location:    rest.Location,
		Website:     rest.Website,
		ImageURL:    rest.ImageURL,
	}
	if err = r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	*rest = rec.toModel()
	return nil
}

func (r *gormRestaurantRepository) find(ctx context.Context, id int64) (*restaurantRecord, error) {
	var rec restaurantRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	return &rec, nil
}

func (r *gormRestaurantRepository) FindByID(ctx context.Context, id int64) (_ *model.Restaurant, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	rec, err := r.find(ctx, id)
	if rec == nil || err != nil {
		return nil, err
	}
	rest := rec.toModel()
	return &rest, nil
}

func (r *gormRestaurantRepository) FindAllWithStats(ctx context.Context) (_ []model.RestaurantWithStats, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	var recs []restaurantRecord
	if err = r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	stats, err := r.stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	restaurants := make([]model.RestaurantWithStats, 0, len(recs))
	for i := range recs {
		restaurants = append(restaurants, withStats(&recs[i], stats))
	}
	return restaurants, nil
}

func (r *gormRestaurantRepository) FindWithStats(ctx context.Context, id int64) (_ *model.RestaurantWithStats, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	rec, err := r.find(ctx, id)
	if rec == nil || err != nil {
		return nil, err
	}
	stats, err := r.stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	rest := withStats(rec, stats)
	return &rest, nil
}

func (r *gormRestaurantRepository) Update(ctx context.Context, id int64, patch model.RestaurantPatch) (_ *model.Restaurant, err error) {
	defer observe("update", "restaurants", time.Now(), &err)

	columns := patchColumns(map[string]*string{
		"name":        patch.Name,
		"description": patch.Description,
		"location":    patch.Location,
		"website":     patch.Website,
		"image_url":   patch.ImageURL,
	})

	rec, err := r.find(ctx, id)
	if rec == nil || err != nil {
		return nil, err
	}
	if err = r.db.WithContext(ctx).Model(rec).Updates(columns).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	if rec, err = r.find(ctx, id); rec == nil || err != nil {
		return nil, err
	}
	rest := rec.toModel()
	return &rest, nil
}

func (r *gormRestaurantRepository) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete", "restaurants", time.Now(), &err)

	if err = r.db.WithContext(ctx).Delete(&restaurantRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return nil
}

type gormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a ReviewRepository backed by gorm
func NewGormReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(ctx context.Context, review *model.Review) (err error) {
	defer observe("insert", "reviews", time.Now(), &err)

	rec := reviewRecord{
		Rating:       review.Rating,
		Review:       review.Review,
		Name:         review.Name,
		RestaurantID: review.RestaurantID,
	}
	if err = r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	*review = rec.toModel()
	return nil
}

func (r *gormReviewRepository) find(ctx context.Context, id int64) (*reviewRecord, error) {
	var rec reviewRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return &rec, nil
}

func (r *gormReviewRepository) FindByID(ctx context.Context, id int64) (_ *model.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)

	rec, err := r.find(ctx, id)
	if rec == nil || err != nil {
		return nil, err
	}
	review := rec.toModel()
	return &review, nil
}

func (r *gormReviewRepository) FindAll(ctx context.Context) ([]model.Review, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *gormReviewRepository) FindByRestaurant(ctx context.Context, restaurantID int64) ([]model.Review, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID))
}

func (r *gormReviewRepository) list(_ context.Context, q *gorm.DB) (_ []model.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)

	var recs []reviewRecord
	if err = q.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews := make([]model.Review, 0, len(recs))
	for i := range recs {
		reviews = append(reviews, recs[i].toModel())
	}
	return reviews, nil
}

func (r *gormReviewRepository) Update(ctx context.Context, id int64, patch model.ReviewPatch) (_ *model.Review, err error) {
	defer observe("update", "reviews", time.Now(), &err)

	columns := patchColumns(map[string]*string{
		"rating": patch.Rating,
		"review": patch.Review,
		"name":   patch.Name,
	})

	rec, err := r.find(ctx, id)
	if rec == nil || err != nil {
		return nil, err
	}
	if err = r.db.WithContext(ctx).Model(rec).Updates(columns).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if rec, err = r.find(ctx, id); rec == nil || err != nil {
		return nil, err
	}
	review := rec.toModel()
	return &review, nil
}

func (r *gormReviewRepository) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete", "reviews", time.Now(), &err)

	if err = r.db.WithContext(ctx).Delete(&reviewRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (r *gormReviewRepository) DeleteByRestaurant(ctx context.Context, restaurantID int64) (_ int64, err error) {
	defer observe("delete", "reviews", time.Now(), &err)

	res := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Delete(&reviewRecord{})
	if err = res.Error; err != nil {
		return 0, fmt.Errorf("failed to delete reviews of restaurant: %w", err)
	}
	return res.RowsAffected, nil
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a UserRepository backed by gorm
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer observe("insert", "users", time.Now(), &err)

	rec := userRecord{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         int(user.Role),
	}
	if err = r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = rec.ID
	return nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *gormUserRepository) findOne(ctx context.Context, cond string, arg interface{}) (_ *model.User, err error) {
	defer observe("select", "users", time.Now(), &err)

	var rec userRecord
	if err = r.db.WithContext(ctx).Where(cond, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return rec.toModel(), nil
}
