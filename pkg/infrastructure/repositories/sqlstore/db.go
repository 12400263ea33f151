package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Dialect selects the SQL flavour a DB speaks
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// String method for Dialect enum
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// PoolConfig tunes the connection pool. Zero values keep the driver defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is a connection pool together with its dialect
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to a postgres or sqlite database and checks the connection
func Open(ctx context.Context, driver, dsn string, pool PoolConfig) (*DB, error) {
	var dialect Dialect
	var driverName string
	switch driver {
	case "postgres":
		dialect, driverName = Postgres, "postgres"
	case "sqlite":
		dialect, driverName = SQLite, "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		// one writer; a second connection would see SQLITE_BUSY
		sqldb.SetMaxOpenConns(1)
	} else {
		if pool.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(pool.MaxOpenConns)
		}
		if pool.MaxIdleConns > 0 {
			sqldb.SetMaxIdleConns(pool.MaxIdleConns)
		}
		lifetime := pool.ConnMaxLifetime
		if lifetime == 0 {
			lifetime = 30 * time.Minute
		}
		sqldb.SetConnMaxLifetime(lifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}

	if dialect == SQLite {
		if _, err := sqldb.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	return &DB{DB: sqldb, dialect: dialect}, nil
}

// Dialect returns the SQL flavour of the database
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind rewrites ? placeholders into the dialect's form
func (db *DB) Rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// runner is satisfied by both *sql.DB and *sql.Tx
type runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// inTx runs fn inside a transaction, rolling back when it fails
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// isConstraintViolation reports unique, foreign key, check and not-null
// violations of either dialect.
func isConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// class 23: integrity constraint violation
		return strings.HasPrefix(string(pqErr.Code), "23")
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		const sqliteConstraint = 19
		return liteErr.Code()&0xff == sqliteConstraint
	}
	return false
}
