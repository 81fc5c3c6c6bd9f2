package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/personregistry/backend/internal/hashing"
	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// TokenIssuer is the interface that wraps access token generation
type TokenIssuer interface {
	// Method GenerateToken creates a signed access token carrying the user's id, username and role.
	GenerateToken(userID int, username, role string) (string, error)
}

// authService implements registration, login and administrator bootstrap
type authService struct {
	tx     Transactor
	users  UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(tx Transactor, users UserRepository, tokens TokenIssuer, logger *zap.Logger) *authService {
	return &authService{
		tx:     tx,
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account with role "User".
//
// The username is trimmed before use. Validation failures are returned as ErrInvalid DomainErrors,
// a taken username as ErrConflict.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return models.NewInvalid("Username is required")
	}
	if !validPassword(req.Password) {
		return models.NewInvalid(fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
	}
	if req.Password != req.ConfirmPassword {
		return models.NewInvalid("Passwords do not match")
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflict("Username already exists")
	}

	hash, salt, err := hashing.NewHash(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return err
	}

	// The unique key still rejects a registration racing past the check above
	id, err := s.users.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         models.RoleUser,
	})
	if err != nil {
		return err
	}

	s.logger.Info("user registered", zap.Int("user_id", id), zap.String("username", username))
	return nil
}

// Login verifies the credentials and issues an access token.
//
// Unknown usernames and wrong passwords produce the same ErrUnauthorized DomainError.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	invalid := models.NewUnauthorized("Invalid username or password")

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, invalid
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}

	ok, err := hashing.Verify(req.Password, user.PasswordHash, user.PasswordSalt)
	if err != nil {
		s.logger.Error("stored credentials are unreadable", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	if !ok {
		s.logger.Info("login rejected", zap.String("username", username))
		return nil, invalid
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Int("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &models.LoginResponse{Token: token}, nil
}

// EnsureAdmin makes sure at least one administrator exists.
//
// When no user holds role "Admin", the account named "username" is promoted, or created with "password" when missing.
// Empty credentials or an existing administrator make it a no-op. It reports whether anything changed.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	if !validPassword(password) {
		return false, models.NewInvalid(fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
	}

	changed := false
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		changed = false
		admins, err := s.users.CountByRole(ctx, models.RoleAdmin, true)
		if err != nil {
			return err
		}
		if admins > 0 {
			return nil
		}

		existing, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			changed = true
			return s.users.UpdateRole(ctx, existing.ID, models.RoleAdmin)
		}

		hash, salt, err := hashing.NewHash(password)
		if err != nil {
			return err
		}
		if _, err := s.users.Create(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			PasswordSalt: salt,
			Role:         models.RoleAdmin,
		}); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// Another instance bootstrapped the same account concurrently
			return false, nil
		}
		return false, err
	}

	if changed {
		s.logger.Info("bootstrap administrator ensured", zap.String("username", username))
	}
	return changed, nil
}
