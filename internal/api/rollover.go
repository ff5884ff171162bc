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

	"ecoscore-go/internal/rollover"

	"go.uber.org/zap"
)

// RunIfDue archives and resets the week when the rollover period has elapsed
func (s *Service) RunIfDue(ctx context.Context) (*rollover.Result, error) {
	result, err := s.scheduler.RunIfDue(ctx)
	if err != nil {
		zap.L().Error("Rollover failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (s *Service) RolloverStatus(ctx context.Context) (*rollover.Status, error) {
	return s.scheduler.Status(ctx)
}

func (s *Service) RolloverPeriod() int {
	return s.scheduler.Period()
}
