package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/personregistry/backend/internal/models"
	"go.uber.org/zap"
)

const userColumns = "id, username, password_hash, password_salt, role, person_id"

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var user models.User
	var personID sql.NullInt64
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.PasswordSalt, &user.Role, &personID); err != nil {
		return nil, err
	}
	if personID.Valid {
		id := int(personID.Int64)
		user.PersonID = &id
	}
	return &user, nil
}

// Method Create inserts a new user and returns its id.
// A taken username is reported as a conflict.
func (r *userRepository) Create(ctx context.Context, user *models.User) (int, error) {
	query := `INSERT INTO users (username, password_hash, password_salt, role) VALUES (?, ?, ?, ?)`

	result, err := conn(ctx, r.db).ExecContext(ctx, query, user.Username, user.PasswordHash, user.PasswordSalt, user.Role)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, models.NewConflict("Username already exists")
		}
		r.logger.Error("failed to insert user", zap.Error(err))
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return int(id), nil
}

// Method GetByID returns the user with the given id, or nil when it does not exist.
// With forUpdate set the row stays locked until the surrounding transaction ends.
func (r *userRepository) GetByID(ctx context.Context, id int, forUpdate bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?` + lockClause(forUpdate)

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by id", zap.Int("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Method GetByUsername returns the user with the given username, or nil when it does not exist
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	user, err := scanUser(conn(ctx, r.db).QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by username", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Method ExistsByUsername reports whether the username is taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// Method CountByRole counts users holding role.
// With forUpdate set the matching rows are locked, which serializes concurrent admin deletions.
func (r *userRepository) CountByRole(ctx context.Context, role string, forUpdate bool) (int, error) {
	var query string
	if forUpdate {
		query = `SELECT COUNT(*) FROM (SELECT id FROM users WHERE role = ? FOR UPDATE) AS locked`
	} else {
		query = `SELECT COUNT(*) FROM users WHERE role = ?`
	}

	var count int
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, role).Scan(&count); err != nil {
		r.logger.Error("failed to count users by role", zap.String("role", role), zap.Error(err))
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}

	return count, nil
}

// Method UpdateRole stores a new role for the user
func (r *userRepository) UpdateRole(ctx context.Context, id int, role string) error {
	query := `UPDATE users SET role = ? WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, role, id); err != nil {
		r.logger.Error("failed to update role", zap.Int("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to update role: %w", err)
	}

	return nil
}

// Method UpdatePassword stores a new password hash and salt for the user
func (r *userRepository) UpdatePassword(ctx context.Context, id int, hash, salt string) error {
	query := `UPDATE users SET password_hash = ?, password_salt = ? WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, hash, salt, id); err != nil {
		r.logger.Error("failed to update password", zap.Int("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Method SetPersonID links the user to its person record
func (r *userRepository) SetPersonID(ctx context.Context, id, personID int) error {
	query := `UPDATE users SET person_id = ? WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, personID, id); err != nil {
		if isDuplicateEntry(err) {
			return models.NewConflict("User already has personal information")
		}
		r.logger.Error("failed to link person", zap.Int("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to link person: %w", err)
	}

	return nil
}

// Method Delete removes the user row
func (r *userRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = ?`

	if _, err := conn(ctx, r.db).ExecContext(ctx, query, id); err != nil {
		r.logger.Error("failed to delete user", zap.Int("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
