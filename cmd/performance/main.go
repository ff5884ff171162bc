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

	"ecoscore-go/internal/api"
	"ecoscore-go/internal/common"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/goals"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

func printProgress(report *models.ProgressReport) {
	common.PrintHeader(fmt.Sprintf("WEEKLY GOALS FOR %s", report.Username), common.DefaultWidth)
	for i, c := range report.Categories {
		mark := " "
		if c.Met {
			mark = "✓"
		}
		fmt.Printf("%s %s %-22s %s %5s%%  %4d/%d\n",
			common.BoxPrefix(i == len(report.Categories)-1), mark, c.Label,
			common.ProgressBar(c.Percent), c.Percent.StringFixed(1), c.Points, c.Target)
	}

	fmt.Println("\nTips:")
	for _, tip := range goals.Tips(report) {
		fmt.Printf("  • %s\n", tip)
	}
}

func printTrend(summary *models.TrendSummary) {
	common.PrintHeader("WEEKLY TREND", common.DefaultWidth)
	if !summary.HasHistory {
		fmt.Printf("No completed weeks yet. Current week: %d pts\n", summary.Current)
		return
	}
	for _, p := range summary.Points {
		fmt.Printf("%s %-16s %6d pts\n", common.BoxPrefix(false), common.TrendLabel(p.Label), p.Total)
	}
	common.PrintBoxSeparator(30)
	fmt.Printf("%s Change vs previous week: %s\n", common.BoxPrefix(true), common.FormatChange(summary.ChangeVsPrevious))
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	usernameFlag := flag.String("username", "", "Username to report on (default: every user)")
	flag.Parse()

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

	users, err := common.InitializeUsers(ctx, services.Api, strings.TrimSpace(*usernameFlag))
	if err != nil {
		zap.L().Fatal("Failed to initialize users", zap.Error(err))
	}
	if len(users) == 0 {
		zap.L().Warn("No users registered yet")
		return
	}

	for _, user := range users {
		if err := printUserReport(ctx, services.Api, user); err != nil {
			zap.L().Error("Failed to build report",
				zap.String("username", user.Username),
				zap.Error(err))
		}
	}

	common.PrintSeparatorNewline("=", common.DefaultWidth)
}

func printUserReport(ctx context.Context, svc *api.Service, user models.User) error {
	common.PrintHeader(fmt.Sprintf("SCORES FOR %s", user.Username), common.DefaultWidth)
	common.PrintScoreLines(user.Scores)

	progress, err := svc.Progress(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("failed to evaluate goals: %w", err)
	}
	printProgress(progress)

	summary, err := svc.CompareWeeks(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("failed to compare weeks: %w", err)
	}
	printTrend(summary)
	return nil
}
