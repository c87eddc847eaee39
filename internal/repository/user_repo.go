package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_reviews/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer observe("insert", "users", time.Now(), &err)

	sql := `INSERT INTO users (username, email, password_hash, role)
            VALUES ($1, $2, $3, $4) RETURNING id`
	err = r.db.QueryRow(ctx, sql, user.Username, user.Email, user.PasswordHash, user.Role).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, email, password_hash, role FROM users WHERE email = $1`, email)
}

func (r *userRepository) findOne(ctx context.Context, sql string, arg interface{}) (_ *model.User, err error) {
	defer observe("select", "users", time.Now(), &err)

	user := &model.User{}
	err = r.db.QueryRow(ctx, sql, arg).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil // not found is not an error here, the caller decides
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
