// =============================================================================
// Sales Sync - MySQL Store
// =============================================================================
//
// This package is the only place that talks to the relational store. Every
// statement is built with go-sqlbuilder (MySQL flavor) and executed through
// sqlx, so values always travel as bound parameters.
//
// TABLES:
//   pj_sales          working transaction table (identity: dist, nomor_faktur, item_code)
//   pj_outlets        outlet registry
//   xmatch_product    product master (site + item code -> product id)
//   master_group      product grouping and list price
//   pj_sales_panel    per-invoice territory override
//   pj_mkt_structure  territory hierarchy
//   sales_harian      long-term sales ledger
//
// =============================================================================

package store

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/salesync/internal/config"
)

// Table names.
const (
	TableSales     = "pj_sales"
	TableOutlets   = "pj_outlets"
	TableProducts  = "xmatch_product"
	TableGroups    = "master_group"
	TablePanel     = "pj_sales_panel"
	TableHierarchy = "pj_mkt_structure"
	TableLedger    = "sales_harian"
)

// Store wraps a MySQL connection pool.
type Store struct {
	db     *sqlx.DB
	logger logrus.FieldLogger
}

// New wraps an existing pool.
func New(db *sqlx.DB, logger logrus.FieldLogger) *Store {
	return &Store{db: db, logger: logger.WithField("module", "store")}
}

// Open connects to MySQL, tunes the pool and pings with a bounded number of
// attempts. Only the initial connection is retried; statements never are.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger logrus.FieldLogger) (*Store, error) {
	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			logger.WithFields(logrus.Fields{"db": cfg.String(), "attempt": attempt}).Info("connected to database")
			return New(db, logger), nil
		}
		if attempt >= attempts {
			break
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 4))
		logger.WithError(err).WithField("attempt", attempt).Warnf("failed to connect database, retrying in %s", sleep)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}

	db.Close()
	return nil, errors.Wrapf(err, "failed to connect to %s", cfg.String())
}

// DB exposes the pool for the migrator.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// maxPlaceholders is MySQL's limit on bound parameters in one statement
// (error 1390 above it).
const maxPlaceholders = 65535

// statement is one built SQL statement with its arguments.
type statement struct {
	query string
	args  []interface{}
}

// rowsPerStatement returns how many rows of width bound columns fit in one
// statement.
func rowsPerStatement(width int) int {
	if width < 1 {
		return maxPlaceholders
	}
	return maxPlaceholders / width
}

// chunk splits items into consecutive parts of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	parts := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > size {
		parts = append(parts, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		parts = append(parts, items)
	}
	return parts
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
