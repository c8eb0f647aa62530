// Package store persists save documents and the daily ledger with gorm.
package store

import (
	"context"
	"database/sql"
	errs "errors"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNoChange = errs.New("no change")
	ErrNotFound = errs.New("save not found")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLitePath = "questlog.db"
)

// pingDB is swapped out in tests.
var pingDB = func(ctx context.Context, db *sql.DB) error { return db.PingContext(ctx) }

// Options selects the database.
type Options struct {
	Driver string
	DSN    string
	Logger *zap.Logger
}

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm   *gorm.DB
	sql    *sql.DB
	driver string
	log    *zap.Logger
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }
func (d *DB) Driver() string { return d.driver }

// Open connects to the configured database. SQLite schemas are created
// on the spot; PostgreSQL schemas come from the migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite, "":
		dsn := opts.DSN
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("missing DSN")
		}
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unknown driver %q", opts.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	if driver == DriverSQLite {
		// One writer; also keeps in-memory databases on a single connection.
		sdb.SetMaxOpenConns(1)
	} else {
		sdb.SetConnMaxLifetime(30 * time.Minute)
		sdb.SetMaxOpenConns(10)
		sdb.SetMaxIdleConns(5)
	}
	if err := pingDB(ctx, sdb); err != nil {
		_ = sdb.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	db := &DB{gorm: gdb, sql: sdb, driver: driver, log: log}
	if driver == DriverSQLite {
		if err := gdb.WithContext(ctx).AutoMigrate(&SaveRecord{}, &LedgerEntry{}); err != nil {
			_ = sdb.Close()
			return nil, errors.Wrap(err, "migrate sqlite schema")
		}
	}
	log.Debug("store opened", zap.String("driver", driver))
	return db, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}
