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
	"flag"
	"fmt"
	"strings"

	"ecoscore-go/internal/common"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/leaderboard"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	keyNames := make([]string, 0, len(leaderboard.Keys()))
	for _, k := range leaderboard.Keys() {
		keyNames = append(keyNames, string(k))
	}

	byFlag := flag.String("by", string(leaderboard.KeyTotal), "Ranking key: "+strings.Join(keyNames, "|"))
	limitFlag := flag.Int("limit", 10, "Maximum rows to show (0 for all)")
	flag.Parse()

	by, err := leaderboard.ParseKey(*byFlag)
	if err != nil {
		zap.L().Fatal("Invalid ranking key", zap.String("by", *byFlag), zap.Error(err))
	}

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

	rows, err := services.Api.Rank(ctx, by, *limitFlag)
	if err != nil {
		zap.L().Fatal("Failed to rank users", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("LEADERBOARD BY %s", strings.ToUpper(by.Label())), common.DefaultWidth)
	if len(rows) == 0 {
		fmt.Println("No users registered yet")
	}
	for i, row := range rows {
		fmt.Printf("%s #%-3d %-30s %8d pts\n", common.BoxPrefix(i == len(rows)-1), row.Position, row.User.Username, by.Value(row.User))
	}
	common.PrintFooter(fmt.Sprintf("%d users ranked", len(rows)), common.DefaultWidth)
}
