package database

import (
	"context"
	"fmt"
	"time"

	"bizlevel/internal/config"
	"bizlevel/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DriverName is the database/sql driver used for PostgreSQL.
const DriverName = "pgx"

// NewSQLXPostgresDB opens a pooled PostgreSQL connection and verifies it with a ping.
func NewSQLXPostgresDB(dsn string, dbCfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if dbCfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	logger.Get().Info("Connected to PostgreSQL",
		zap.String("host", dbCfg.Host),
		zap.String("database", dbCfg.DBName))
	return db, nil
}
