/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"time"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy the store contracts.
var (
	_ store.Store    = (*Service)(nil)
	_ store.Archiver = (*Service)(nil)
)

// initialMarkerAge is how far in the past the marker is seeded on a fresh
// database, so the first run on a populated store performs a rollover.
const initialMarkerAge = 8

// scoreColumns are added to pre-existing tables that lack them
var scoreColumns = []string{"recycling", "water_energy", "habits", "emissions", "total"}

type Service struct {
	db *sqlx.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sqlx.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=FULL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := newService(db)
	if err := service.initSchema(ctx, time.Now()); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func newService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(ctx context.Context, now time.Time) error {
	schema := `
	-- Live weekly scores, one row per user; rowid keeps registration order
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password TEXT NOT NULL DEFAULT '',
		recycling INTEGER NOT NULL DEFAULT 0,
		water_energy INTEGER NOT NULL DEFAULT 0,
		habits INTEGER NOT NULL DEFAULT 0,
		emissions INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0
	);

	-- Append-only weekly snapshots
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		snapshot_date TEXT NOT NULL,
		recycling INTEGER NOT NULL DEFAULT 0,
		water_energy INTEGER NOT NULL DEFAULT 0,
		habits INTEGER NOT NULL DEFAULT 0,
		emissions INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_history_username ON history(username);
	CREATE INDEX IF NOT EXISTS idx_history_snapshot_date ON history(snapshot_date);

	-- Single-row marker of the last completed rollover
	CREATE TABLE IF NOT EXISTS rollover_marker (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		last_rollover_date TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	for _, table := range []string{"users", "history"} {
		if err := s.ensureScoreColumns(ctx, table); err != nil {
			return fmt.Errorf("unable to migrate %s: %w", table, err)
		}
	}

	seed := models.DateOf(now).AddDays(-initialMarkerAge)
	if _, err := s.db.ExecContext(ctx, querySeedMarker, seed); err != nil {
		return fmt.Errorf("unable to seed rollover marker: %w", err)
	}

	return nil
}

// ensureScoreColumns adds any score column missing from a table created by an
// older schema. Existing rows read the new column as 0.
func (s *Service) ensureScoreColumns(ctx context.Context, table string) error {
	var existing []string
	if err := s.db.SelectContext(ctx, &existing, queryTableColumns, table); err != nil {
		return err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	for _, column := range scoreColumns {
		if present[column] {
			continue
		}
		zap.L().Warn("Adding missing score column",
			zap.String("table", table),
			zap.String("column", column))
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s INTEGER NOT NULL DEFAULT 0", table, column)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func (s *Service) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(tx)
}
