package database

import (
	"context"
	"fmt"

	"ecoscore-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LoadHistory returns every snapshot in the order it was appended
func (s *Service) LoadHistory(ctx context.Context) ([]models.Snapshot, error) {
	zap.L().Debug("Querying history")

	var snapshots []models.Snapshot
	if err := s.db.SelectContext(ctx, &snapshots, queryGetHistory); err != nil {
		zap.L().Error("Failed to query history", zap.Error(err))
		return nil, fmt.Errorf("unable to query history: %w", err)
	}

	zap.L().Debug("Retrieved history", zap.Int("count", len(snapshots)))
	return snapshots, nil
}

// AppendHistory adds snapshots to the log. Snapshots without an Id get one.
func (s *Service) AppendHistory(ctx context.Context, snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return insertSnapshots(ctx, tx, snapshots)
	})
	if err != nil {
		zap.L().Error("Failed to append history", zap.Int("count", len(snapshots)), zap.Error(err))
		return fmt.Errorf("unable to append history: %w", err)
	}

	zap.L().Info("History appended", zap.Int("count", len(snapshots)))
	return nil
}

// ArchiveAndReset appends snapshots and replaces the user set atomically
func (s *Service) ArchiveAndReset(ctx context.Context, snapshots []models.Snapshot, users []models.User) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertSnapshots(ctx, tx, snapshots); err != nil {
			return err
		}
		return replaceUsers(ctx, tx, users)
	})
	if err != nil {
		zap.L().Error("Failed to archive and reset", zap.Error(err))
		return fmt.Errorf("unable to archive and reset: %w", err)
	}

	zap.L().Info("Archive committed",
		zap.Int("snapshots", len(snapshots)),
		zap.Int("users", len(users)))
	return nil
}

func insertSnapshots(ctx context.Context, tx *sqlx.Tx, snapshots []models.Snapshot) error {
	for _, snap := range snapshots {
		id := snap.Id
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, queryInsertSnapshot,
			id, snap.Username, snap.SnapshotDate,
			snap.Recycling, snap.WaterEnergy, snap.Habits, snap.Emissions, snap.Total)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", snap.Username, err)
		}
	}
	return nil
}
