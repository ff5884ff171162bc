package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"go.uber.org/zap"
)

// LoadMarker returns the date of the last rollover, or store.ErrNoMarker
func (s *Service) LoadMarker(ctx context.Context) (models.Date, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, queryGetMarker).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Date{}, store.ErrNoMarker
	}
	if err != nil {
		zap.L().Error("Failed to read rollover marker", zap.Error(err))
		return models.Date{}, fmt.Errorf("failed to read rollover marker: %w", err)
	}

	if !raw.Valid || raw.String == "" {
		return models.Date{}, store.ErrNoMarker
	}

	date, err := models.ParseDate(raw.String)
	if err != nil {
		zap.L().Warn("Ignoring unparseable rollover marker", zap.String("value", raw.String), zap.Error(err))
		return models.Date{}, store.ErrNoMarker
	}
	return date, nil
}

// SaveMarker records date as the last rollover
func (s *Service) SaveMarker(ctx context.Context, date models.Date) error {
	if _, err := s.db.ExecContext(ctx, queryUpsertMarker, date); err != nil {
		zap.L().Error("Failed to save rollover marker", zap.String("date", date.String()), zap.Error(err))
		return fmt.Errorf("failed to save rollover marker: %w", err)
	}
	zap.L().Info("Rollover marker saved", zap.String("date", date.String()))
	return nil
}
