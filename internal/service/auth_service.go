package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"restaurant_reviews/internal/apperr"
	"restaurant_reviews/internal/logging"
	"restaurant_reviews/internal/metrics"
	"restaurant_reviews/internal/model"
	"restaurant_reviews/internal/repository"
	"restaurant_reviews/internal/utils"
	"restaurant_reviews/internal/validation"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = apperr.Invalid("Invalid credentials")

const emailTakenMsg = "Email already registered"

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, input map[string]any) (*model.User, error)
	Login(ctx context.Context, input map[string]any) (*model.User, string, error)
}

// AuthOptions tunes account creation.
type AuthOptions struct {
	BcryptCost int
	// InitialAdminEmail signs up as admin instead of user.
	InitialAdminEmail string
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	opts     AuthOptions

	// dummyHash is compared against when the email is unknown, so both
	// failed login paths pay for one bcrypt comparison at the same cost.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, opts AuthOptions) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		opts:     opts,
	}
}

// Signup validates the body, hashes the password and creates the account
func (s *authService) Signup(ctx context.Context, input map[string]any) (*model.User, error) {
	values, err := validation.Signup.Validate(input, validation.Create)
	if err != nil {
		return nil, err
	}
	username, _ := values.String("username")
	email, _ := values.String("email")
	password, _ := values.String("password")

	hashedPassword, err := utils.HashPassword(password, s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if s.opts.InitialAdminEmail != "" && strings.EqualFold(email, s.opts.InitialAdminEmail) {
		role = model.RoleAdmin
		logging.Ctx(ctx).Info().Str("email", email).Msg("Registering initial admin account")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordAuth("signup", "conflict")
			return nil, apperr.Conflict(emailTakenMsg, err)
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	metrics.RecordAuth("signup", "success")
	return user, nil
}

// Login authenticates a user and returns a signed token
func (s *authService) Login(ctx context.Context, input map[string]any) (*model.User, string, error) {
	values, err := validation.Login.Validate(input, validation.Create)
	if err != nil {
		return nil, "", err
	}
	email, _ := values.String("email")
	password, _ := values.String("password")

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		utils.CheckPasswordHash(password, s.unknownUserHash())
		metrics.RecordAuth("login", "invalid")
		return nil, "", ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		metrics.RecordAuth("login", "invalid")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.RecordAuth("login", "success")
	return user, token, nil
}

func (s *authService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := utils.HashPassword("unknown-user-placeholder", s.opts.BcryptCost)
		if err != nil {
			logging.Error().Err(err).Msg("Failed to prepare login placeholder hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
