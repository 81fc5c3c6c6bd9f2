package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

type addressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *sql.DB, logger *zap.Logger) *addressRepository {
	return &addressRepository{
		db:     db,
		logger: logger,
	}
}

// Method GetByID returns the address with the given id, or nil when it does not exist
func (r *addressRepository) GetByID(ctx context.Context, id int, forUpdate bool) (*models.Address, error) {
	query := `SELECT id, city, street_name, house_number, flat_number FROM addresses WHERE id = ?` + lockClause(forUpdate)

	var address models.Address
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&address.ID, &address.City, &address.StreetName, &address.HouseNumber, &address.FlatNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get address by id", zap.Int("address_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get address by id: %w", err)
	}

	return &address, nil
}

// Method FindByKey returns the address matching all four fields exactly, or nil when there is none.
//
// A locking read of a missing tuple takes a gap lock on uq_addresses_tuple that blocks every concurrent
// insert of the same tuple, so forUpdate is only meant for tuples known to exist.
func (r *addressRepository) FindByKey(ctx context.Context, key models.AddressKey, forUpdate bool) (*models.Address, error) {
	query := `
		SELECT id, city, street_name, house_number, flat_number
		FROM addresses
		WHERE city = ? AND street_name = ? AND house_number = ? AND flat_number = ?` + lockClause(forUpdate)

	var address models.Address
	err := conn(ctx, r.db).QueryRowContext(ctx, query, key.City, key.StreetName, key.HouseNumber, key.FlatNumber).Scan(
		&address.ID, &address.City, &address.StreetName, &address.HouseNumber, &address.FlatNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to find address", zap.Error(err))
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	return &address, nil
}

// Method Create inserts a new address and returns its id.
// An existing identical address is reported as a conflict.
func (r *addressRepository) Create(ctx context.Context, key models.AddressKey) (int, error) {
	query := `INSERT INTO addresses (city, street_name, house_number, flat_number) VALUES (?, ?, ?, ?)`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, key.City, key.StreetName, key.HouseNumber, key.FlatNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, models.NewConflict("Address already exists")
		}
		r.logger.Error("failed to insert address", zap.Error(err))
		return 0, fmt.Errorf("failed to insert address: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return int(id), nil
}

// Method Update rewrites the address row in place.
// Taking the tuple of another row is reported as a conflict.
func (r *addressRepository) Update(ctx context.Context, id int, key models.AddressKey) error {
	query := `UPDATE addresses SET city = ?, street_name = ?, house_number = ?, flat_number = ? WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, key.City, key.StreetName, key.HouseNumber, key.FlatNumber, id); err != nil {
		if isDuplicateEntry(err) {
			return models.NewConflict("Address already exists")
		}
		r.logger.Error("failed to update address", zap.Int("address_id", id), zap.Error(err))
		return fmt.Errorf("failed to update address: %w", err)
	}

	return nil
}

// Method Delete removes the address row
func (r *addressRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM addresses WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		r.logger.Error("failed to delete address", zap.Int("address_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete address: %w", err)
	}

	return nil
}
