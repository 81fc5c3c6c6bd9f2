package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQL error numbers
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// maxTxAttempts bounds how often InTx runs a transaction aborted by a lock conflict
const maxTxAttempts = 3

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx used by repositories
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// lockClause returns the locking suffix for reads inside a transaction
func lockClause(forUpdate bool) string {
	if forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

// isDuplicateEntry reports whether err is a MySQL unique key violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

type transactor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactor creates a transaction runner over db
func NewTransactor(db *sql.DB, logger *zap.Logger) *transactor {
	return &transactor{
		db:     db,
		logger: logger,
	}
}

// isLockConflict reports whether err aborted the transaction because of a deadlock or lock wait timeout
func isLockConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlDeadlock || mysqlErr.Number == mysqlLockWaitTimeout
}

// Method InTx runs fn inside a single REPEATABLE READ transaction.
//
// Repositories called with the context passed to fn take part in the transaction.
// The transaction commits when fn returns nil and rolls back otherwise, so a domain refusal
// returned from fn leaves no partial writes behind. Nested calls reuse the outer transaction.
//
// A transaction aborted by a deadlock or lock wait timeout is run again from the start, up to
// maxTxAttempts times in total. fn must therefore not keep state from a previous attempt.
func (t *transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = t.runTx(ctx, fn)
		if !isLockConflict(err) || attempt == maxTxAttempts || ctx.Err() != nil {
			return err
		}
		t.logger.Warn("transaction aborted by lock conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return err
}

// runTx runs fn in one transaction attempt
func (t *transactor) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		t.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		t.logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// duplicateKeyName returns the violated key name of a MySQL duplicate entry error
func duplicateKeyName(err error) string {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return ""
	}
	// Duplicate entry '...' for key 'persons.PRIMARY'
	msg := mysqlErr.Message
	end := strings.LastIndex(msg, "'")
	if end <= 0 {
		return ""
	}
	start := strings.LastIndex(msg[:end], "'")
	if start < 0 {
		return ""
	}
	key := msg[start+1 : end]
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}
