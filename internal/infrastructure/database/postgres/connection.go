package postgres

import (
	"context"
	"fmt"
	"time"
	"volunteer-match/internal/config"
	"volunteer-match/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB owns the connection pool. Repositories derive a request-scoped session
// from it per call; it carries no per-request state itself.
type DB struct {
	*gorm.DB
	queryTimeout time.Duration
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	var gormLogLevel gormLogger.LogLevel
	if cfg.Server.Environment == "production" {
		gormLogLevel = gormLogger.Warn
	} else {
		gormLogLevel = gormLogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_connections", cfg.Database.MaxIdleConns),
	)

	return &DB{DB: db, queryTimeout: cfg.Query.Timeout}, nil
}

// Wrap adopts an already opened gorm handle.
func Wrap(db *gorm.DB, queryTimeout time.Duration) *DB {
	return &DB{DB: db, queryTimeout: queryTimeout}
}

// session returns a handle bound to ctx, bounded by the configured timeout.
func (d *DB) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if d.queryTimeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
		return d.DB.WithContext(ctx), cancel
	}
	return d.DB.WithContext(ctx), func() {}
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
