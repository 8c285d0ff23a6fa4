package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB wraps the gorm handle holding imported rankings
type DB struct {
	*gorm.DB
}

type ConnectionConfig struct {
	DatabaseURL     string
	IsDevelopment   bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// DefaultConnectionConfig sizes the pool for the URL's driver. SQLite gets a
// single connection so concurrent writers never see "database is locked".
func DefaultConnectionConfig(databaseURL string, isDevelopment bool) ConnectionConfig {
	config := ConnectionConfig{
		DatabaseURL:     databaseURL,
		IsDevelopment:   isDevelopment,
		MaxIdleConns:    2,
		MaxOpenConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
	if isSQLite(databaseURL) {
		config.MaxIdleConns = 1
		config.MaxOpenConns = 1
		config.ConnMaxLifetime = 0
	}
	return config
}

func NewConnection(databaseURL string, isDevelopment bool) (*DB, error) {
	return NewConnectionWithConfig(DefaultConnectionConfig(databaseURL, isDevelopment))
}

func NewConnectionWithConfig(config ConnectionConfig) (*DB, error) {
	gdb, err := gorm.Open(dialector(config.DatabaseURL), &gorm.Config{
		Logger:  sqlLogger(config.IsDevelopment),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{gdb}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.ping(config.PingTimeout); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"driver":         gdb.Dialector.Name(),
		"max_open_conns": config.MaxOpenConns,
	}).Info("Database connected")

	return db, nil
}

// sqlLogger keeps SQL tracing on stderr; stdout carries simulation reports
func sqlLogger(verbose bool) gormlogger.Interface {
	level := gormlogger.Error
	if verbose {
		level = gormlogger.Info
	}
	return gormlogger.New(log.New(os.Stderr, "", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func isSQLite(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "sqlite://") || strings.HasPrefix(databaseURL, "file:")
}

// dialector picks sqlite for sqlite:// and file: URLs, postgres otherwise
func dialector(databaseURL string) gorm.Dialector {
	if !isSQLite(databaseURL) {
		return postgres.Open(databaseURL)
	}
	return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
}

func (db *DB) ping(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	return db.ping(2 * time.Second)
}
