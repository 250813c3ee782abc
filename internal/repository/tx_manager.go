package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// ErrCommitFailed marks a transaction whose work function succeeded but whose
// commit did not. The outcome on the server is unknown, so it is never retried.
var ErrCommitFailed = errors.New("transaction commit failed")

// TransactionManager manages database transactions via context injection.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// RetryPolicy bounds how often a transaction is re-run after a transient failure.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Backoff returns the wait before the given retry (1-based), doubling from BaseDelay up to MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

type transactionManager struct {
	db     *gorm.DB
	policy RetryPolicy
}

func NewTransactionManager(db *gorm.DB, policy RetryPolicy) TransactionManager {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &transactionManager{db: db, policy: policy}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	// nested calls join the outer transaction
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || errors.Is(err, ErrCommitFailed) || !IsTransient(err) || attempt >= t.policy.MaxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, errors.Join(ctx.Err(), err))
		case <-time.After(t.policy.Backoff(attempt)):
		}
	}
}

func (t *transactionManager) runOnce(ctx context.Context, fn func(txCtx context.Context) error) error {
	workDone := false
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey, tx)
		if err := fn(txCtx); err != nil {
			return err
		}
		workDone = true
		return nil
	})
	if err != nil && workDone {
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return err
}

// IsTransient reports whether err is worth retrying the whole transaction for:
// serialization failures, deadlocks, lost connections and pgx errors that are safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08")
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// IsUniqueViolation reports whether err is a postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetDB extracts the transaction DB from context if present, otherwise returns root DB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}

// window restricts column to [from, to); zero bounds are open.
func window(db *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		db = db.Where(column+" >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where(column+" < ?", to)
	}
	return db
}
