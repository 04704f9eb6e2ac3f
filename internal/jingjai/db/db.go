// Package db implements persistence for the control service on GORM:
// CRUD for every record type, the sequential ID allocator, the uniqueness
// index and transactional retries.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	dbmodels "github.com/gartstein/jingjai/internal/jingjai/db/models"
	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/models"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultTxRetries = 3

type Repository struct {
	db        *gorm.DB
	txRetries uint64
	inTx      bool
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite database file, or ":memory:".
	Path string
	// TxRetries bounds how often a transaction is re-run after a
	// serialization failure or deadlock.
	TxRetries int
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		// A single connection serializes writers and keeps :memory: databases shared.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.Item{},
		&models.Adjustment{},
		&models.Sale{},
		&models.Resource{},
		&models.Booking{},
		&dbmodels.Counter{},
		&dbmodels.UniqueKey{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	retries := uint64(defaultTxRetries)
	if cfg.TxRetries > 0 {
		retries = uint64(cfg.TxRetries)
	}
	return &Repository{db: db, txRetries: retries}, nil
}

func openDialector(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		return gormmysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// WithTransaction runs fn in a single transaction. The whole closure is
// re-run when the database aborts it for contention; any other error rolls
// back and is returned as is.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	op := func() error {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Repository{db: tx, txRetries: r.txRetries, inTx: true})
		})
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	delay := backoff.NewExponentialBackOff()
	delay.InitialInterval = 20 * time.Millisecond
	delay.MaxInterval = time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(delay, r.txRetries), ctx)
	return backoff.Retry(op, policy)
}

// isRetryable reports serialization failures and deadlocks.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// translate maps driver errors onto the service sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return e.ErrAlreadyExists
	default:
		return err
	}
}

func getRecord[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, lock bool) (*T, error) {
	var rec T
	q := db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func createRecord[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return translate(db.WithContext(ctx).Create(rec).Error)
}

func saveRecord[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return translate(db.WithContext(ctx).Save(rec).Error)
}

func deleteRecord[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var rec T
	result := db.WithContext(ctx).Delete(&rec, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
