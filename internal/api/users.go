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

	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

// Register creates a new user with zero scores
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := s.ledger.Register(ctx, username, password); err != nil {
		if errors.Is(err, ledger.ErrUserExists) || errors.Is(err, ledger.ErrInvalidInput) {
			zap.L().Info("Registration rejected", zap.String("username", username), zap.Error(err))
		} else {
			zap.L().Error("Registration failed", zap.String("username", username), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	return s.ledger.Authenticate(ctx, username, password)
}

// GetUser returns a user's live record without the stored credential
func (s *Service) GetUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ledger.ErrInvalidInput)
	}
	u, err := s.ledger.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	public := u.Public()
	return &public, nil
}

// ListUsers returns every user without stored credentials
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		zap.L().Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}
