package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/france-explorer/internal/logger"
)

// PoolSettings bounds the database/sql connection pool.
type PoolSettings struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

var DefaultPool = PoolSettings{
	MaxOpen:     20,
	MaxIdle:     10,
	MaxIdleTime: 5 * time.Minute,
	MaxLifetime: time.Hour,
}

const dbConnectTimeout = 3 * time.Second

// NewDB opens a pgx-backed pool and pings it before returning.
// With debug set, the connected role and database are logged once.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("config: empty database dsn")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	applyPool(db, DefaultPool)

	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if debug {
		logConnection(ctx, db)
	}
	return db, nil
}

func applyPool(db *sql.DB, p PoolSettings) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

func logConnection(ctx context.Context, db *sql.DB) {
	var role, name string
	err := db.QueryRowContext(ctx, "SELECT current_user, current_database()").Scan(&role, &name)
	if err != nil {
		logger.Logger.Debug().Err(err).Msg("db identity query failed")
		return
	}
	logger.Logger.Debug().Str("role", role).Str("database", name).Msg("db connected")
}
