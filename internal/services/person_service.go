package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

// ImageProcessor is the interface that wraps profile picture processing
type ImageProcessor interface {
	// Method ProcessProfilePicture validates the upload and returns the stored thumbnail bytes.
	//
	// Missing, disallowed or undecodable uploads are reported as an ErrInvalid DomainError.
	ProcessProfilePicture(upload *models.Upload) ([]byte, error)
}

// PasswordChanger is the interface that wraps the shared password change operation
type PasswordChanger interface {
	// Method ChangePassword replaces the password of user "userID".
	//
	// Domain refusals are reported through the returned result, infrastructure failures through the error.
	ChangePassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error)
}

// personService implements the personal profile operations of a signed-in user
type personService struct {
	tx        Transactor
	users     UserRepository
	persons   PersonRepository
	addresses AddressRepository
	images    ImageProcessor
	passwords PasswordChanger
	logger    *zap.Logger
}

// NewPersonService creates a new person service
func NewPersonService(
	tx Transactor,
	users UserRepository,
	persons PersonRepository,
	addresses AddressRepository,
	images ImageProcessor,
	passwords PasswordChanger,
	logger *zap.Logger,
) *personService {
	return &personService{
		tx:        tx,
		users:     users,
		persons:   persons,
		addresses: addresses,
		images:    images,
		passwords: passwords,
		logger:    logger,
	}
}

// GetProfile returns the profile attached to the user together with its address
func (s *personService) GetProfile(ctx context.Context, userID int) (*models.Person, error) {
	person, err := s.persons.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, models.NewNotFound("Person not found")
	}
	return person, nil
}

// errInvalidEmail refuses an email address that is not well formed
var errInvalidEmail = models.NewInvalid("Email is not valid")

// validateProfileInput checks that every profile field is supplied and the email is well formed
func validateProfileInput(input *models.ProfileInput) error {
	required := []struct {
		value string
		name  string
	}{
		{input.Name, "Name"},
		{input.Surname, "Surname"},
		{input.PersonalNumber, "Personal number"},
		{input.PhoneNumber, "Phone number"},
		{input.Email, "Email"},
		{input.City, "City"},
		{input.StreetName, "Street name"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return models.NewInvalid(field.name + " is required")
		}
	}
	if !govalidator.IsEmail(input.Email) {
		return errInvalidEmail
	}
	if input.HouseNumber <= 0 {
		return models.NewInvalid("House number must be positive")
	}
	if input.FlatNumber < 0 {
		return models.NewInvalid("Flat number cannot be negative")
	}
	return nil
}

// AddProfile attaches a new profile to the user.
//
// The picture is processed before any write. Address lookup or creation, the person insert and the user link
// happen in one transaction, so an identical address stored by a concurrent call is reused instead of duplicated.
func (s *personService) AddProfile(ctx context.Context, userID int, input *models.ProfileInput) (*models.Person, error) {
	if err := s.checkCanAttach(ctx, userID, false); err != nil {
		return nil, err
	}
	if err := validateProfileInput(input); err != nil {
		return nil, err
	}

	picture, err := s.images.ProcessProfilePicture(input.ProfilePicture)
	if err != nil {
		return nil, err
	}

	key := models.AddressKey{
		City:        input.City,
		StreetName:  input.StreetName,
		HouseNumber: input.HouseNumber,
		FlatNumber:  input.FlatNumber,
	}
	person := &models.Person{
		ID:             userID,
		Name:           input.Name,
		Surname:        input.Surname,
		PersonalNumber: input.PersonalNumber,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		ProfilePicture: picture,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkCanAttach(ctx, userID, true); err != nil {
			return err
		}

		addressID, err := s.findOrCreateAddress(ctx, key)
		if err != nil {
			return err
		}
		person.AddressID = addressID

		if err := s.persons.Create(ctx, person); err != nil {
			return err
		}
		return s.users.SetPersonID(ctx, userID, person.ID)
	})
	if err != nil {
		if !models.IsDomainError(err) {
			s.logger.Error("failed to add profile", zap.Int("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	person.Address = &models.Address{
		ID:          person.AddressID,
		City:        key.City,
		StreetName:  key.StreetName,
		HouseNumber: key.HouseNumber,
		FlatNumber:  key.FlatNumber,
	}
	s.logger.Info("profile added", zap.Int("user_id", userID), zap.Int("address_id", person.AddressID))
	return person, nil
}

// checkCanAttach verifies that the user exists and has no profile yet
func (s *personService) checkCanAttach(ctx context.Context, userID int, forUpdate bool) error {
	user, err := s.users.GetByID(ctx, userID, forUpdate)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFound("User not found")
	}
	if user.HasProfile() {
		return models.NewConflict("User already has personal information")
	}
	return nil
}

// findOrCreateAddress returns the id of the address matching key, inserting it when missing.
// A concurrent insert of the same tuple is resolved by reading it back.
func (s *personService) findOrCreateAddress(ctx context.Context, key models.AddressKey) (int, error) {
	existing, err := s.lookupAddress(ctx, key)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	id, err := s.addresses.Create(ctx, key)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return 0, err
	}
	return s.refind(ctx, key, err)
}

// lookupAddress finds the address stored under key and locks its row.
// The tuple is looked up with a plain read and the row is then locked by primary key,
// so a missing tuple never holds a gap lock against concurrent inserts of it.
func (s *personService) lookupAddress(ctx context.Context, key models.AddressKey) (*models.Address, error) {
	found, err := s.addresses.FindByKey(ctx, key, false)
	if err != nil || found == nil {
		return nil, err
	}

	locked, err := s.addresses.GetByID(ctx, found.ID, true)
	if err != nil {
		return nil, err
	}
	// Deleted or rewritten since the snapshot was taken
	if locked == nil || locked.Key() != key {
		return nil, nil
	}
	return locked, nil
}

// refind reads back an address whose insert or update hit the unique key.
// The row exists at that point, so the locking read sees the latest committed version.
func (s *personService) refind(ctx context.Context, key models.AddressKey, conflict error) (int, error) {
	existing, err := s.addresses.FindByKey(ctx, key, true)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, fmt.Errorf("address reported as duplicate but not found: %w", conflict)
	}
	s.logger.Debug("reusing concurrently stored address", zap.Int("address_id", existing.ID))
	return existing.ID, nil
}

// UpdateProfile applies a sparse patch to the user's profile.
//
// Blank strings and non-positive numbers in the patch leave stored values untouched. When address fields are supplied,
// the person moves to the address matching the resulting tuple: an existing one is reused, an address shared with
// other people is left intact and a new one is created, and an unshared one is rewritten in place.
// An address left without residents by the move is deleted. Everything happens in one transaction.
func (s *personService) UpdateProfile(ctx context.Context, userID int, patch *models.ProfilePatch) error {
	if models.HasText(patch.Email) && !govalidator.IsEmail(*patch.Email) {
		return errInvalidEmail
	}

	var picture []byte
	if patch.ProfilePicture != nil {
		if _, err := s.GetProfile(ctx, userID); err != nil {
			return err
		}
		processed, err := s.images.ProcessProfilePicture(patch.ProfilePicture)
		if err != nil {
			return err
		}
		picture = processed
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		person, err := s.lockProfile(ctx, userID)
		if err != nil {
			return err
		}

		current, err := s.addresses.GetByID(ctx, person.AddressID, true)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("address %d of person %d does not exist", person.AddressID, person.ID)
		}

		// Counted before this person's own row is changed
		residents, err := s.persons.CountByAddressID(ctx, current.ID, true)
		if err != nil {
			return err
		}

		patch.ApplyPersonFields(person)
		if picture != nil {
			person.ProfilePicture = picture
		}

		previousAddressID := person.AddressID
		if patch.TouchesAddress() {
			addressID, err := s.resolveTargetAddress(ctx, current, patch.OverlayAddress(current.Key()), residents > 1)
			if err != nil {
				return err
			}
			person.AddressID = addressID
		}

		if err := s.persons.Update(ctx, person); err != nil {
			return err
		}

		if person.AddressID != previousAddressID {
			return deleteOrphanedAddress(ctx, s.persons, s.addresses, s.logger, previousAddressID)
		}
		return nil
	})
	if err != nil {
		if !models.IsDomainError(err) {
			s.logger.Error("failed to update profile", zap.Int("user_id", userID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("profile updated", zap.Int("user_id", userID))
	return nil
}

// lockProfile loads the person row of the user with a locking read
func (s *personService) lockProfile(ctx context.Context, userID int) (*models.Person, error) {
	user, err := s.users.GetByID(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasProfile() {
		return nil, models.NewNotFound("Person not found")
	}

	person, err := s.persons.GetByID(ctx, *user.PersonID, true)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, models.NewNotFound("Person not found")
	}
	return person, nil
}

// resolveTargetAddress returns the id of the address the person should reference after the update
func (s *personService) resolveTargetAddress(ctx context.Context, current *models.Address, target models.AddressKey, shared bool) (int, error) {
	existing, err := s.lookupAddress(ctx, target)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		// Either another address already holds the tuple or the current one is unchanged
		return existing.ID, nil
	}

	if shared {
		return s.findOrCreateAddress(ctx, target)
	}

	err = s.addresses.Update(ctx, current.ID, target)
	if err == nil {
		return current.ID, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return 0, err
	}
	return s.refind(ctx, target, err)
}

// deleteOrphanedAddress removes the address when nobody references it any more
func deleteOrphanedAddress(ctx context.Context, persons PersonRepository, addresses AddressRepository, logger *zap.Logger, addressID int) error {
	residents, err := persons.CountByAddressID(ctx, addressID, true)
	if err != nil {
		return err
	}
	if residents > 0 {
		return nil
	}
	logger.Debug("removing orphaned address", zap.Int("address_id", addressID))
	return addresses.Delete(ctx, addressID)
}

// ChangeOwnPassword changes the signed-in user's password through the shared password change
func (s *personService) ChangeOwnPassword(ctx context.Context, userID int, newPassword string) (*models.OperationResult, error) {
	return s.passwords.ChangePassword(ctx, userID, newPassword)
}
