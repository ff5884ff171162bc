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

	"ecoscore-go/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LoadUsers returns every user in registration order. Score cells that are
// missing or not numeric load as 0.
func (s *Service) LoadUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	var users []models.User
	if err := s.db.SelectContext(ctx, &users, queryGetUsers); err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// SaveUsers replaces the whole user set
func (s *Service) SaveUsers(ctx context.Context, users []models.User) error {
	zap.L().Debug("Saving users", zap.Int("count", len(users)))

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return replaceUsers(ctx, tx, users)
	})
	if err != nil {
		zap.L().Error("Failed to save users", zap.Error(err))
		return fmt.Errorf("unable to save users: %w", err)
	}
	return nil
}

func replaceUsers(ctx context.Context, tx *sqlx.Tx, users []models.User) error {
	if _, err := tx.ExecContext(ctx, queryDeleteUsers); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	for _, u := range users {
		_, err := tx.ExecContext(ctx, queryInsertUser,
			u.Username, u.Password, u.Recycling, u.WaterEnergy, u.Habits, u.Emissions, u.Total)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
		}
	}
	return nil
}
