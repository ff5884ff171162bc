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

package common

import (
	"context"
	"errors"
	"fmt"

	"ecoscore-go/internal/api"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

// DemoPassword is the password of every seeded demo user
const DemoPassword = "demo"

var demoUsers = []string{"alice", "bob", "carol"}

// InitializeUsers retrieves users based on an optional username filter.
// If usernameFilter is provided, returns a single user with that username.
// If usernameFilter is empty, returns all users.
func InitializeUsers(ctx context.Context, svc *api.Service, usernameFilter string) ([]models.User, error) {
	var users []models.User

	if usernameFilter != "" {
		zap.L().Info("Looking up user", zap.String("username", usernameFilter))
		user, err := svc.GetUser(ctx, usernameFilter)
		if err != nil {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		users = append(users, *user)
	} else {
		allUsers, err := svc.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		users = allUsers
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// SeedDemoUsers registers the demo users, skipping any that already exist
func SeedDemoUsers(ctx context.Context, svc *api.Service) int {
	created := 0
	for _, name := range demoUsers {
		err := svc.Register(ctx, name, DemoPassword)
		switch {
		case err == nil:
			created++
			zap.L().Info("Demo user created", zap.String("username", name))
		case errors.Is(err, ledger.ErrUserExists):
			zap.L().Debug("Demo user already exists", zap.String("username", name))
		default:
			zap.L().Error("Failed to create demo user", zap.String("username", name), zap.Error(err))
		}
	}
	return created
}
