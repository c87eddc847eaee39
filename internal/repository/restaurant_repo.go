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

// RestaurantRepository defines operations for restaurant data
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id int64) (*model.Restaurant, error)
	FindAllWithStats(ctx context.Context) ([]model.RestaurantWithStats, error)
	FindWithStats(ctx context.Context, id int64) (*model.RestaurantWithStats, error)
	Update(ctx context.Context, id int64, patch model.RestaurantPatch) (*model.Restaurant, error)
	Delete(ctx context.Context, id int64) error
}

type restaurantRepository struct {
	db DBTX
}

// NewRestaurantRepository creates a RestaurantRepository backed by PostgreSQL
func NewRestaurantRepository(db DBTX) RestaurantRepository {
	return &restaurantRepository{db: db}
}

const restaurantColumns = `id, name, description, location, website, image_url, created_at, updated_at`

const restaurantStatsQuery = `SELECT r.id, r.name, r.description, r.location, r.website, r.image_url, r.created_at, r.updated_at,
       COUNT(rv.id) AS review_count,
       ROUND(AVG(rv.rating::numeric), 1)::float8 AS rating
FROM restaurants r
LEFT JOIN reviews rv ON rv.restaurant_id = r.id`

func scanRestaurant(row pgx.Row, r *model.Restaurant) error {
	return row.Scan(&r.ID, &r.Name, &r.Description, &r.Location, &r.Website, &r.ImageURL, &r.CreatedAt, &r.UpdatedAt)
}

func scanRestaurantWithStats(row pgx.Row, r *model.RestaurantWithStats) error {
	return row.Scan(&r.ID, &r.Name, &r.Description, &r.Location, &r.Website, &r.ImageURL, &r.CreatedAt, &r.UpdatedAt,
		&r.ReviewCount, &r.Rating)
}

// Create inserts a new restaurant and fills in its generated columns
func (r *restaurantRepository) Create(ctx context.Context, rest *model.Restaurant) (err error) {
	defer observe("insert", "restaurants", time.Now(), &err)

	sql := `INSERT INTO restaurants (name, description, location, website, image_url)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err = r.db.QueryRow(ctx, sql, rest.Name, rest.Description, rest.Location, rest.Website, rest.ImageURL).
		Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// FindByID retrieves a restaurant by its ID
func (r *restaurantRepository) FindByID(ctx context.Context, id int64) (_ *model.Restaurant, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	rest := &model.Restaurant{}
	sql := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	if err = scanRestaurant(r.db.QueryRow(ctx, sql, id), rest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	return rest, nil
}

// FindAllWithStats lists every restaurant with its review count and mean rating
func (r *restaurantRepository) FindAllWithStats(ctx context.Context) (_ []model.RestaurantWithStats, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	rows, err := r.db.Query(ctx, restaurantStatsQuery+` GROUP BY r.id ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []model.RestaurantWithStats{}
	for rows.Next() {
		var rest model.RestaurantWithStats
		if err = scanRestaurantWithStats(rows, &rest); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}
	return restaurants, nil
}

// FindWithStats retrieves one restaurant with its aggregates
func (r *restaurantRepository) FindWithStats(ctx context.Context, id int64) (_ *model.RestaurantWithStats, err error) {
	defer observe("select", "restaurants", time.Now(), &err)

	rest := &model.RestaurantWithStats{}
	sql := restaurantStatsQuery + ` WHERE r.id = $1 GROUP BY r.id`
	if err = scanRestaurantWithStats(r.db.QueryRow(ctx, sql, id), rest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find restaurant by ID: %w", err)
	}
	return rest, nil
}

// Update applies the non-nil fields of patch and returns the updated row
func (r *restaurantRepository) Update(ctx context.Context, id int64, patch model.RestaurantPatch) (_ *model.Restaurant, err error) {
	defer observe("update", "restaurants", time.Now(), &err)

	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE restaurants SET updated_at = NOW()")
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
	set("name", patch.Name)
	set("description", patch.Description)
	set("location", patch.Location)
	set("website", patch.Website)
	set("image_url", patch.ImageURL)

	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d RETURNING %s", argCount, restaurantColumns))
	args = append(args, id)

	rest := &model.Restaurant{}
	if err = scanRestaurant(r.db.QueryRow(ctx, queryBuilder.String(), args...), rest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}
	return rest, nil
}

// Delete removes a restaurant; its reviews go with it
func (r *restaurantRepository) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete", "restaurants", time.Now(), &err)

	if _, err = r.db.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}
	return nil
}
