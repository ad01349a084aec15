// Package txmanager выполняет функции в транзакции, положенной в context.
// Вложенный вызов внутри активной транзакции присоединяется к ней.
package txmanager

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 20 * time.Millisecond

	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var (
	ErrBeginTx          = errors.New("txmanager: begin transaction failed")
	ErrCommit           = errors.New("txmanager: commit failed")
	ErrRollback         = errors.New("txmanager: rollback failed")
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// Beginner открывает транзакции. Реализуется *dbmetrics.DB.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

type TransactionManager struct {
	db         Beginner
	maxRetries int
	backoff    time.Duration
}

type Option func(*TransactionManager)

// WithRetries количество повторов сериализуемой транзакции при конфликте
func WithRetries(n int, backoff time.Duration) Option {
	return func(m *TransactionManager) {
		m.maxRetries = n
		m.backoff = backoff
	}
}

func NewTransactionManager(db Beginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:         db,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения.
// Все запросы fn видят один снимок (REPEATABLE READ).
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При serialization failure / deadlock транзакция целиком повторяется.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	// присоединяемся к внешней транзакции, повторять её не наша задача
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "txmanager: retry aborted")
			case <-time.After(time.Duration(attempt) * m.backoff):
			}
		}

		err = m.run(ctx, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}

	return errors.Mark(errors.Wrapf(err, "after %d retries", m.maxRetries), ErrRetriesExhausted)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "begin"), ErrBeginTx)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Mark(errors.Wrapf(err, "rollback: %v", rbErr), ErrRollback)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Mark(errors.Wrap(err, "commit"), ErrCommit)
	}

	return nil
}

// IsRetryable true для конфликтов сериализации и дедлоков PostgreSQL
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}
