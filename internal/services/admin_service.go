package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// adminService implements account management available to administrators
type adminService struct {
	tx        Transactor
	users     UserRepository
	persons   PersonRepository
	addresses AddressRepository
	passwords PasswordChanger
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	tx Transactor,
	users UserRepository,
	persons PersonRepository,
	addresses AddressRepository,
	passwords PasswordChanger,
	logger *zap.Logger,
) *adminService {
	return &adminService{
		tx:        tx,
		users:     users,
		persons:   persons,
		addresses: addresses,
		passwords: passwords,
		logger:    logger,
	}
}

// DeleteUserByID deletes the user with its profile, and its address when nobody else lives there.
//
// Unknown users and deleting the last administrator are reported as a failed result with nothing changed.
func (s *adminService) DeleteUserByID(ctx context.Context, userID int) (*models.OperationResult, error) {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID, true)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFound("User not found")
		}

		var person *models.Person
		if user.HasProfile() {
			person, err = s.persons.GetByID(ctx, *user.PersonID, true)
			if err != nil {
				return err
			}
		}
		return s.deleteAccount(ctx, user, person)
	})
	return s.deletionResult(err, zap.Int("user_id", userID))
}

// DeleteUserByPersonalNumber deletes the account owning the personal number.
//
// Please reference DeleteUserByID for the deletion rules.
func (s *adminService) DeleteUserByPersonalNumber(ctx context.Context, personalNumber string) (*models.OperationResult, error) {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		person, err := s.persons.GetByPersonalNumber(ctx, personalNumber, true)
		if err != nil {
			return err
		}
		if person == nil {
			return models.NewNotFound("Person with given personal number not found")
		}

		// A person row shares its id with the owning user
		user, err := s.users.GetByID(ctx, person.ID, true)
		if err != nil {
			return err
		}
		return s.deleteAccount(ctx, user, person)
	})
	return s.deletionResult(err, zap.String("personal_number", personalNumber))
}

// deletionResult logs the outcome of a deletion and converts it into a result
func (s *adminService) deletionResult(err error, target zap.Field) (*models.OperationResult, error) {
	switch {
	case err == nil:
		s.logger.Info("user deleted", target)
	case models.IsDomainError(err):
		s.logger.Warn("user deletion refused", target, zap.String("reason", err.Error()))
	default:
		s.logger.Error("failed to delete user", target, zap.Error(err))
	}
	return resolveResult(err, "User deleted successfully")
}

// deleteAccount removes the person, its orphaned address and the user.
// Either user or person may be nil.
func (s *adminService) deleteAccount(ctx context.Context, user *models.User, person *models.Person) error {
	if user != nil {
		if err := s.canDeleteUser(ctx, user); err != nil {
			return err
		}
	}

	if person != nil {
		if err := s.persons.Delete(ctx, person.ID); err != nil {
			return err
		}
		if err := deleteOrphanedAddress(ctx, s.persons, s.addresses, s.logger, person.AddressID); err != nil {
			return err
		}
	}

	if user != nil {
		return s.users.Delete(ctx, user.ID)
	}
	return nil
}

// canDeleteUser refuses to delete the only remaining administrator.
// The administrator rows are locked so concurrent deletions cannot both pass the check.
func (s *adminService) canDeleteUser(ctx context.Context, user *models.User) error {
	if !user.IsAdmin() {
		return nil
	}

	admins, err := s.users.CountByRole(ctx, models.RoleAdmin, true)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return models.NewConflict("Cannot delete the last admin user")
	}
	return nil
}

// SetUserRole overwrites the user's role.
//
// The role is free text stored exactly as given, so "Admin " is not the administrator role.
// Only a blank role is refused. Demoting the last administrator is allowed.
func (s *adminService) SetUserRole(ctx context.Context, userID int, role string) (*models.OperationResult, error) {
	if strings.TrimSpace(role) == "" {
		return models.Refused(models.NewInvalid("Role cannot be empty.")), nil
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
		username = user.Username
		return s.users.UpdateRole(ctx, user.ID, role)
	})
	if err == nil {
		s.logger.Info("user role changed", zap.Int("user_id", userID), zap.String("role", role))
	} else if !models.IsDomainError(err) {
		s.logger.Error("failed to set user role", zap.Int("user_id", userID), zap.Error(err))
	}

	return resolveResult(err, fmt.Sprintf("Role for user %s set to '%s'.", username, role))
}

// ChangeUserPassword changes another user's password through the shared password change
func (s *adminService) ChangeUserPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error) {
	return s.passwords.ChangePassword(ctx, userID, newPassword)
}
