package store

import (
	"context"
	"errors"

	"ecoscore-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	// ErrNoMarker is returned by LoadMarker when no usable rollover date is
	// persisted (absent, empty or unparseable).
	ErrNoMarker = errors.New("no rollover marker")
)

// Store defines the contract that every backend (SQLite, CSV, ...) must satisfy.
//
// Every Save/Append call overwrites or extends the whole record set in one
// step; there is no merge. Callers load, mutate and save as a unit.
type Store interface {
	// --- Users ---
	LoadUsers(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error

	// --- History ---
	LoadHistory(ctx context.Context) ([]models.Snapshot, error)
	AppendHistory(ctx context.Context, snapshots []models.Snapshot) error

	// --- Rollover marker ---
	LoadMarker(ctx context.Context) (models.Date, error)
	SaveMarker(ctx context.Context, date models.Date) error

	// --- Lifecycle ---
	Close()
}

// Archiver is implemented by backends that can append snapshots and replace
// the user set in a single transaction.
type Archiver interface {
	ArchiveAndReset(ctx context.Context, snapshots []models.Snapshot, users []models.User) error
}
