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

package api

import (
	"context"
	"errors"
	"fmt"

	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

// AddPoints adds points directly to one category of a user's live scores
func (s *Service) AddPoints(ctx context.Context, username string, category models.Category, points models.Points) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ledger.ErrInvalidInput)
	}

	zap.L().Info("Adding points",
		zap.String("username", username),
		zap.String("category", string(category)),
		zap.Int("points", int(points)))

	if err := s.ledger.AddPoints(ctx, username, category, points); err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) || errors.Is(err, ledger.ErrInvalidInput) {
			zap.L().Warn("Points rejected",
				zap.String("username", username),
				zap.String("category", string(category)),
				zap.Error(err))
		} else {
			zap.L().Error("Adding points failed",
				zap.String("username", username),
				zap.String("category", string(category)),
				zap.Error(err))
		}
		return err
	}
	return nil
}

// ApplyActions records the selected catalog actions for a user and returns
// the points added. An empty selection adds nothing.
func (s *Service) ApplyActions(ctx context.Context, username string, actionIds []string) (models.Points, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: username is required", ledger.ErrInvalidInput)
	}

	added, err := s.ledger.ApplyActions(ctx, username, actionIds)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownAction) || errors.Is(err, ledger.ErrUserNotFound) {
			zap.L().Warn("Actions rejected",
				zap.String("username", username),
				zap.Strings("actions", actionIds),
				zap.Error(err))
		} else {
			zap.L().Error("Applying actions failed",
				zap.String("username", username),
				zap.Strings("actions", actionIds),
				zap.Error(err))
		}
		return 0, err
	}
	return added, nil
}
