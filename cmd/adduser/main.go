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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"unicode/utf8"

	"ecoscore-go/internal/common"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/ledger"

	"go.uber.org/zap"
)

const (
	minPasswordLength = 4
	maxPasswordBytes  = 72
)

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if utf8.RuneCountInString(username) < 2 {
		return fmt.Errorf("username must be at least 2 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	usernameFlag := flag.String("username", "", "Username (required, case-sensitive)")
	passwordFlag := flag.String("password", "", "Password (required)")
	flag.Parse()
	*usernameFlag = strings.TrimSpace(*usernameFlag)

	if *usernameFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Both flags are required: --username and --password")
	}
	if err := validateUsername(*usernameFlag); err != nil {
		zap.L().Fatal("Invalid username", zap.Error(err))
	}
	if err := validatePassword(*passwordFlag); err != nil {
		zap.L().Fatal("Invalid password", zap.Error(err))
	}

	zap.L().Info("Starting user creation process", zap.String("username", *usernameFlag))

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if err := services.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start services", zap.Error(err))
	}

	if err := services.Api.Register(ctx, *usernameFlag, *passwordFlag); err != nil {
		if errors.Is(err, ledger.ErrUserExists) {
			zap.L().Fatal("User already exists", zap.String("username", *usernameFlag))
		}
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	user, err := services.Api.GetUser(ctx, *usernameFlag)
	if err != nil {
		zap.L().Fatal("Failed to read back created user", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Backend:  %s\n", cfg.Store.Backend)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()
	fmt.Println("Record actions with: go run ./cmd/record --username <name> --password <pw> --list")

	zap.L().Info("User created successfully", zap.String("username", user.Username))
}
