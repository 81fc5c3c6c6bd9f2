package services

import (
	"context"

	"github.com/personregistry/backend/internal/models"
)

// Transactor is the interface that wraps transaction handling
type Transactor interface {
	// Method InTx runs "fn" inside a single database transaction.
	//
	// Repository calls made with the context passed to "fn" take part in the transaction.
	// The transaction commits only when "fn" returns nil. Any error, domain refusals included, rolls every write back
	// and is returned unchanged.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository is the interface that wraps methods for Users table data access
type UserRepository interface {
	// Method Create inserts a new user and returns its id.
	//
	// A taken username is reported as a conflict DomainError.
	Create(ctx context.Context, user *models.User) (int, error)
	// Method GetByID retrieves a user by ID.
	//
	// "forUpdate" parameter locks the row until the surrounding transaction ends.
	// If user with such ID does not exist, "nil" is returned together with "nil" error.
	GetByID(ctx context.Context, id int, forUpdate bool) (*models.User, error)
	// Method GetByUsername retrieves a user by username.
	//
	// If user with such username does not exist, "nil" is returned together with "nil" error.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method ExistsByUsername checks if a user with such username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Method CountByRole counts users holding "role".
	//
	// "forUpdate" parameter locks the counted rows until the surrounding transaction ends.
	CountByRole(ctx context.Context, role string, forUpdate bool) (int, error)
	// Method UpdateRole overwrites the user's role.
	UpdateRole(ctx context.Context, id int, role string) error
	// Method UpdatePassword overwrites the user's password hash and salt.
	UpdatePassword(ctx context.Context, id int, hash, salt string) error
	// Method SetPersonID links the user to its person record.
	SetPersonID(ctx context.Context, id, personID int) error
	// Method Delete removes the user.
	Delete(ctx context.Context, id int) error
}

// PersonRepository is the interface that wraps methods for Persons table data access
type PersonRepository interface {
	// Method Create inserts a person keyed by the owning user's id.
	//
	// A duplicate personal number is reported as a conflict DomainError.
	Create(ctx context.Context, person *models.Person) error
	// Method GetByUserID retrieves the profile of a user together with its address.
	//
	// If the user has no profile, "nil" is returned together with "nil" error.
	GetByUserID(ctx context.Context, userID int) (*models.Person, error)
	// Method GetByID retrieves a person row without its address.
	//
	// Please reference UserRepository.GetByID for "forUpdate" and missing-row semantics.
	GetByID(ctx context.Context, id int, forUpdate bool) (*models.Person, error)
	// Method GetByPersonalNumber retrieves a person row by its unique personal number.
	//
	// Please reference UserRepository.GetByID for "forUpdate" and missing-row semantics.
	GetByPersonalNumber(ctx context.Context, personalNumber string, forUpdate bool) (*models.Person, error)
	// Method Update persists every field of the person, including its address reference.
	Update(ctx context.Context, person *models.Person) error
	// Method Delete removes the person.
	Delete(ctx context.Context, id int) error
	// Method CountByAddressID counts people referencing the address.
	CountByAddressID(ctx context.Context, addressID int, forUpdate bool) (int, error)
}

// AddressRepository is the interface that wraps methods for Addresses table data access
type AddressRepository interface {
	// Method GetByID retrieves an address by ID, or "nil" when it does not exist.
	GetByID(ctx context.Context, id int, forUpdate bool) (*models.Address, error)
	// Method FindByKey retrieves the address exactly matching all four fields, or "nil" when there is none.
	//
	// Use "forUpdate" only for a tuple known to exist: locking a missing tuple blocks concurrent inserts of it.
	FindByKey(ctx context.Context, key models.AddressKey, forUpdate bool) (*models.Address, error)
	// Method Create inserts a new address and returns its id.
	//
	// An address with the same four fields already stored is reported as a conflict DomainError.
	Create(ctx context.Context, key models.AddressKey) (int, error)
	// Method Update rewrites the address fields in place.
	//
	// Taking the fields of another stored address is reported as a conflict DomainError.
	Update(ctx context.Context, id int, key models.AddressKey) error
	// Method Delete removes the address.
	Delete(ctx context.Context, id int) error
}

// resolveResult converts the outcome of a (success, message) operation.
// Domain refusals become a failed result, infrastructure errors are returned as is.
func resolveResult(err error, successMessage string) (*models.OperationResult, error) {
	if err == nil {
		return models.Succeeded(successMessage), nil
	}
	if models.IsDomainError(err) {
		return models.Refused(err), nil
	}
	return nil, err
}
