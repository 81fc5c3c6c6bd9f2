package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

const personColumns = "id, name, surname, personal_number, phone_number, email, profile_picture, address_id"

type personRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *sql.DB, logger *zap.Logger) *personRepository {
	return &personRepository{
		db:     db,
		logger: logger,
	}
}

func scanPerson(row interface{ Scan(dest ...any) error }) (*models.Person, error) {
	var person models.Person
	if err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Surname,
		&person.PersonalNumber,
		&person.PhoneNumber,
		&person.Email,
		&person.ProfilePicture,
		&person.AddressID,
	); err != nil {
		return nil, err
	}
	return &person, nil
}

// personWriteError maps duplicate key violations of the persons table to conflicts
func personWriteError(err error) error {
	switch duplicateKeyName(err) {
	case "":
		return nil
	case "PRIMARY":
		return models.NewConflict("User already has personal information")
	default:
		return models.NewConflict("Person with this personal number already exists")
	}
}

// Method Create inserts a person whose id equals the owning user's id
func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO persons (id, name, surname, personal_number, phone_number, email, profile_picture, address_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		person.ID,
		person.Name,
		person.Surname,
		person.PersonalNumber,
		person.PhoneNumber,
		person.Email,
		person.ProfilePicture,
		person.AddressID,
	)
	if err != nil {
		if conflict := personWriteError(err); conflict != nil {
			return conflict
		}
		r.logger.Error("failed to insert person", zap.Int("person_id", person.ID), zap.Error(err))
		return fmt.Errorf("failed to insert person: %w", err)
	}

	return nil
}

// Method GetByUserID returns the person owned by the user together with its address,
// or nil when the user has no profile
func (r *personRepository) GetByUserID(ctx context.Context, userID int) (*models.Person, error) {
	query := `
		SELECT p.id, p.name, p.surname, p.personal_number, p.phone_number, p.email, p.profile_picture, p.address_id,
		       a.id, a.city, a.street_name, a.house_number, a.flat_number
		FROM users u
		JOIN persons p ON p.id = u.person_id
		JOIN addresses a ON a.id = p.address_id
		WHERE u.id = ?
	`

	var person models.Person
	var address models.Address
	err := conn(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&person.ID,
		&person.Name,
		&person.Surname,
		&person.PersonalNumber,
		&person.PhoneNumber,
		&person.Email,
		&person.ProfilePicture,
		&person.AddressID,
		&address.ID,
		&address.City,
		&address.StreetName,
		&address.HouseNumber,
		&address.FlatNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get person by user id", zap.Int("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get person by user id: %w", err)
	}
	person.Address = &address

	return &person, nil
}

// Method GetByID returns the person row without its address, or nil when it does not exist
func (r *personRepository) GetByID(ctx context.Context, id int, forUpdate bool) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ?` + lockClause(forUpdate)

	person, err := scanPerson(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get person by id", zap.Int("person_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get person by id: %w", err)
	}

	return person, nil
}

// Method GetByPersonalNumber returns the person with the given personal number, or nil when it does not exist
func (r *personRepository) GetByPersonalNumber(ctx context.Context, personalNumber string, forUpdate bool) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE personal_number = ?` + lockClause(forUpdate)

	person, err := scanPerson(conn(ctx, r.db).QueryRowContext(ctx, query, personalNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get person by personal number", zap.Error(err))
		return nil, fmt.Errorf("failed to get person by personal number: %w", err)
	}

	return person, nil
}

// Method Update persists every column of the person row
func (r *personRepository) Update(ctx context.Context, person *models.Person) error {
	query := `
		UPDATE persons
		SET name = ?, surname = ?, personal_number = ?, phone_number = ?, email = ?, profile_picture = ?, address_id = ?
		WHERE id = ?
	`

	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		person.Name,
		person.Surname,
		person.PersonalNumber,
		person.PhoneNumber,
		person.Email,
		person.ProfilePicture,
		person.AddressID,
		person.ID,
	)
	if err != nil {
		if conflict := personWriteError(err); conflict != nil {
			return conflict
		}
		r.logger.Error("failed to update person", zap.Int("person_id", person.ID), zap.Error(err))
		return fmt.Errorf("failed to update person: %w", err)
	}

	return nil
}

// Method Delete removes the person row
func (r *personRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM persons WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		r.logger.Error("failed to delete person", zap.Int("person_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete person: %w", err)
	}

	return nil
}

// Method CountByAddressID counts people referencing the address.
// With forUpdate set the referencing rows are locked until the transaction ends.
func (r *personRepository) CountByAddressID(ctx context.Context, addressID int, forUpdate bool) (int, error) {
	var query string
	if forUpdate {
		query = `SELECT COUNT(*) FROM (SELECT id FROM persons WHERE address_id = ? FOR UPDATE) AS locked`
	} else {
		query = `SELECT COUNT(*) FROM persons WHERE address_id = ?`
	}

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, addressID).Scan(&count); err != nil {
		r.logger.Error("failed to count address residents", zap.Int("address_id", addressID), zap.Error(err))
		return 0, fmt.Errorf("failed to count address residents: %w", err)
	}

	return count, nil
}
