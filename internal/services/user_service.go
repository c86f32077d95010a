package services

import (
	"context"
	"errors"
	"fmt"

	"inventory-api/internal/models"
	"inventory-api/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users  store.UserStore
	logger zerolog.Logger
}

func NewUserService(users store.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.SignupRequest) (int, error) {
	if req.Username == "" || req.Password == "" {
		return 0, validationErr("Username and password are required")
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	_, err := s.users.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return 0, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.users.CreateUser(ctx, req.Username, string(hashedPassword))
	if err != nil {
		// Two racing signups can both pass the lookup above; the unique
		// index decides the winner.
		if errors.Is(err, store.ErrDuplicate) {
			return 0, ErrUsernameTaken
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int("user_id", userID).Str("username", req.Username).Msg("User registered successfully")
	return userID, nil
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password return the same error so callers cannot enumerate accounts.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, validationErr("Username and password are required")
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User authenticated successfully")
	return user, nil
}
