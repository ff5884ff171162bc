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

	"ecoscore-go/internal/common"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/rollover"

	"go.uber.org/zap"
)

func printStatus(status *rollover.Status, period int) {
	common.PrintHeader("ROLLOVER STATUS", common.DefaultWidth)
	fmt.Printf("%s %-16s %s\n", common.BoxPrefix(false), "State", status.State)
	fmt.Printf("%s %-16s %s\n", common.BoxPrefix(false), "Today", status.Today)
	fmt.Printf("%s %-16s %d days\n", common.BoxPrefix(false), "Period", period)
	if status.HasMarker {
		fmt.Printf("%s %-16s %s\n", common.BoxPrefix(false), "Last rollover", status.LastRollover)
		fmt.Printf("%s %-16s %d\n", common.BoxPrefix(false), "Elapsed days", status.ElapsedDays)
	} else {
		fmt.Printf("%s %-16s %s\n", common.BoxPrefix(false), "Last rollover", "unknown")
	}
	fmt.Printf("%s %-16s %s\n", common.BoxPrefix(true), "Next due", status.NextDue)
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	statusOnly := flag.Bool("status", false, "Print the rollover status without running it")
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

	if *statusOnly {
		status, err := services.Api.RolloverStatus(ctx)
		if err != nil {
			zap.L().Fatal("Failed to read rollover status", zap.Error(err))
		}
		printStatus(status, services.Api.RolloverPeriod())
		return
	}

	result, err := services.Api.RunIfDue(ctx)
	if err != nil {
		zap.L().Fatal("Rollover failed", zap.Error(err))
	}

	if !result.Ran {
		common.PrintFooter(fmt.Sprintf("Rollover not due: %d of %d days elapsed since %s",
			result.ElapsedDays, services.Api.RolloverPeriod(), result.LastRollover), common.DefaultWidth)
		return
	}

	common.PrintHeader("ROLLOVER COMPLETE", common.DefaultWidth)
	fmt.Printf("%s %-16s %s\n", common.BoxPrefix(false), "Snapshot date", result.Date)
	fmt.Printf("%s %-16s %d\n", common.BoxPrefix(true), "Users archived", result.Archived)
	common.PrintSeparator("=", common.DefaultWidth)
}
