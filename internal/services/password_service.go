package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/personregistry/backend/internal/hashing"
	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// passwordService implements the password change shared by self-service and admin paths
type passwordService struct {
	tx     Transactor
	users  UserRepository
	logger *zap.Logger
}

// NewPasswordService creates a new password service
func NewPasswordService(tx Transactor, users UserRepository, logger *zap.Logger) *passwordService {
	return &passwordService{
		tx:     tx,
		users:  users,
		logger: logger,
	}
}

// validPassword reports whether password is non-blank and long enough
func validPassword(password string) bool {
	return strings.TrimSpace(password) != "" && utf8.RuneCountInString(password) >= MinPasswordLength
}

// ChangePassword replaces the user's password with a freshly salted hash of newPassword.
//
// Short or blank passwords and unknown users are reported as a failed result.
func (s *passwordService) ChangePassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error) {
	if !validPassword(newPassword) {
		return models.Refused(models.NewInvalid(fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))), nil
	}

	var username string
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID, true)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFound("User not found.")
		}

		hash, salt, err := hashing.NewHash(newPassword)
		if err != nil {
			return err
		}
		if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
			return err
		}
		username = user.Username
		return nil
	})
	if err != nil && !models.IsDomainError(err) {
		s.logger.Error("failed to change password", zap.Int("user_id", userID), zap.Error(err))
	}

	return resolveResult(err, fmt.Sprintf("Password for user '%s' has been changed.", username))
}
