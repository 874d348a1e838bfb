package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/findit/internal/portal/store/sqlstore"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

const uniqueViolation = "23505"

var dialect = &sqlstore.Dialect{
	Name:              "postgres",
	NumberedParams:    true,
	ForUpdate:         " FOR UPDATE",
	LockFamily:        lockFamily,
	IsUniqueViolation: isUniqueViolation,
	Migrate:           migrateUp,
}

// Config tunes the connection pool.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewStore opens a postgres database through pgx's database/sql driver.
func NewStore(ctx context.Context, dsn string, cfg Config) (*sqlstore.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, dialect), nil
}

// lockFamily holds a transaction-scoped advisory lock keyed on the family
// name, released on commit or rollback.
func lockFamily(ctx context.Context, db sqlstore.DBTX, family string) error {
	_, err := db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "content_family:"+family)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
