package repository

import (
	"time"

	"restaurant_reviews/internal/model"

	"gorm.io/gorm"
)

type restaurantRecord struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null;uniqueIndex"`
	Description string `gorm:"size:500;not null"`
	Location    string `gorm:"size:255;not null"`
	Website     string `gorm:"size:255;not null"`
	ImageURL    string `gorm:"column:image_url;size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (restaurantRecord) TableName() string { return "restaurants" }

type reviewRecord struct {
	ID           int64             `gorm:"primaryKey"`
	Rating       string            `gorm:"size:1;not null;check:chk_reviews_rating,rating IN ('1','2','3','4','5')"`
	Review       string            `gorm:"size:500;not null"`
	Name         string            `gorm:"size:255;not null"`
	RestaurantID int64             `gorm:"not null;index"`
	Restaurant   *restaurantRecord `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (reviewRecord) TableName() string { return "reviews" }

type userRecord struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         int    `gorm:"not null;default:2"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

// MigrateGorm creates the tables of the gorm backend if they don't exist.
func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&restaurantRecord{}, &reviewRecord{}, &userRecord{})
}

func (r *restaurantRecord) toModel() model.Restaurant {
	return model.Restaurant{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Website:     r.Website,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *reviewRecord) toModel() model.Review {
	return model.Review{
		ID:           r.ID,
		Rating:       r.Rating,
		Review:       r.Review,
		Name:         r.Name,
		RestaurantID: r.RestaurantID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (u *userRecord) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         model.Role(u.Role),
	}
}

// patchColumns turns the non-nil fields of a patch into an Updates map.
func patchColumns(fields map[string]*string) map[string]interface{} {
	columns := make(map[string]interface{}, len(fields))
	for column, value := range fields {
		if value != nil {
			columns[column] = *value
		}
	}
	return columns
}
