package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type options struct {
	logLevel logger.LogLevel
	log      *slog.Logger
	maxOpen  int
}

type Option func(*options)

// WithLogLevel sets the gorm SQL log level. Default is Warn.
func WithLogLevel(l logger.LogLevel) Option { return func(o *options) { o.logLevel = l } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

func withMaxOpenConns(n int) Option { return func(o *options) { o.maxOpen = n } }

// Dialector picks the gorm dialect for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func OpenGorm(driver, dsn string, opts ...Option) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer at a time, or sqlite reports "database is locked"
		opts = append(opts, withMaxOpenConns(1))
	}
	return OpenGormWithDialector(dial, opts...)
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{logLevel: logger.Warn, log: slog.Default(), maxOpen: 30}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &gorm.Config{
		// duplicate keys surface as gorm.ErrDuplicatedKey
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger: logger.New(slog.NewLogLogger(o.log.Handler(), slog.LevelInfo), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpen)
	sqlDB.SetMaxIdleConns(min(10, o.maxOpen))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dial.Name(), err)
	}
	o.log.Info("gorm: connected", slog.String("dialect", dial.Name()))
	return db, nil
}
