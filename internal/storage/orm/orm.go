// Package orm implements storage.Storage on top of GORM.
//
// The same Store serves MySQL in deployment and SQLite locally and in tests.
// Only the dialector differs. A single *gorm.DB wraps one database/sql
// connection pool which is safe for concurrent use; each request borrows a
// connection for the duration of one statement and returns it.
package orm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aanand-mishra/students-registration/internal/config"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/storage"
	"github.com/aanand-mishra/students-registration/internal/storage/mysql"
	"github.com/aanand-mishra/students-registration/internal/storage/sqlite"
	"github.com/aanand-mishra/students-registration/internal/types"
)

const slowQueryThreshold = 200 * time.Millisecond

// Store is the GORM-backed storage.Storage.
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// Open connects to the data store described by cfg and migrates the
// schema.
//
// The data store may come up after this service (a fresh container stack,
// or a managed instance that is still booting), so failed connection
// attempts are retried with exponential backoff until cfg.ConnectTimeout
// elapses or ctx is cancelled.
func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (*Store, error) {
	gcfg := &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	db, err := backoff.Retry(ctx,
		func() (*gorm.DB, error) {
			dialector, err := dialector(cfg)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			return connect(dialector, gcfg)
		},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(cfg.ConnectTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("data store not reachable, retrying",
				slog.String("driver", cfg.Driver),
				slog.Duration("retry_in", next),
				logger.Err(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("orm.Open: %w: %w", storage.ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("orm.Open: pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

func dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Dialector(cfg), nil
	case config.DriverSQLite:
		return sqlite.Dialector(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// connect opens a pool and pings it once. A pool whose ping failed is
// closed so retries do not leak connections.
func connect(dialector gorm.Dialector, gcfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		if db != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		return nil, err
	}
	return db, nil
}

// migrate creates or updates the students table.
func (s *Store) migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&types.Student{}); err != nil {
		return fmt.Errorf("orm.migrate: %w", err)
	}
	return nil
}

// CreateStudent inserts one row. The primary key is always assigned by the
// data store, so a caller-supplied ID is cleared first.
func (s *Store) CreateStudent(ctx context.Context, student *types.Student) error {
	student.ID = 0
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("CreateStudent: %w", err)
	}
	return nil
}

// ListStudents returns all rows without an ORDER BY; callers must not rely
// on the order.
func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	if err := s.db.WithContext(ctx).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("ListStudents: %w", err)
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("Ping: %w: %w", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	return sqlDB.Close()
}
