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
	"fmt"

	"ecoscore-go/internal/leaderboard"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

// Rank returns the leaderboard ordered by total or one category
func (s *Service) Rank(ctx context.Context, by leaderboard.Key, limit int) ([]models.RankedUser, error) {
	ranked, err := s.leaderboard.Rank(ctx, by, limit)
	if err != nil {
		zap.L().Error("Failed to rank users", zap.String("by", string(by)), zap.Error(err))
		return nil, err
	}
	return ranked, nil
}

// CompareWeeks returns the previous, best and current weekly totals of a user
func (s *Service) CompareWeeks(ctx context.Context, username string) (*models.TrendSummary, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ledger.ErrInvalidInput)
	}
	summary, err := s.trend.CompareWeeks(ctx, username)
	if err != nil {
		zap.L().Error("Failed to compare weeks", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return summary, nil
}

// Progress evaluates a user's live scores against the weekly goals
func (s *Service) Progress(ctx context.Context, username string) (*models.ProgressReport, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ledger.ErrInvalidInput)
	}
	report, err := s.goals.Progress(ctx, username)
	if err != nil {
		zap.L().Error("Failed to evaluate goals", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return report, nil
}
