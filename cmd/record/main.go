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

	"ecoscore-go/internal/api"
	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/common"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"

	"go.uber.org/zap"
)

type recordRequest struct {
	username string
	password string
	actions  []string
	category models.Category
	points   models.Points
	list     bool
}

func parseAndValidateFlags() (*recordRequest, error) {
	usernameFlag := flag.String("username", "", "Username (required unless --list)")
	passwordFlag := flag.String("password", "", "Password (required unless --list)")
	actionsFlag := flag.String("actions", "", "Comma-separated catalog action ids")
	categoryFlag := flag.String("category", "", "Category for a direct point entry")
	pointsFlag := flag.Int("points", 0, "Points for a direct point entry (may be negative)")
	listFlag := flag.Bool("list", false, "List the action catalog and exit")
	flag.Parse()

	req := &recordRequest{
		username: strings.TrimSpace(*usernameFlag),
		password: *passwordFlag,
		list:     *listFlag,
	}
	if req.list {
		return req, nil
	}

	if req.username == "" || req.password == "" {
		return nil, fmt.Errorf("flags --username and --password are required")
	}

	for _, id := range strings.Split(*actionsFlag, ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.actions = append(req.actions, id)
		}
	}

	if *categoryFlag != "" {
		category, err := models.ParseCategory(*categoryFlag)
		if err != nil {
			return nil, err
		}
		req.category = category
		req.points = models.Points(*pointsFlag)
	}

	if len(req.actions) == 0 && req.category == "" {
		return nil, fmt.Errorf("nothing to record: pass --actions or --category with --points")
	}
	if len(req.actions) > 0 && req.category != "" {
		return nil, fmt.Errorf("--actions and --category cannot be combined")
	}
	return req, nil
}

func printCatalog(cat *catalog.Catalog) {
	common.PrintHeader("ACTION CATALOG", common.WideWidth)
	for _, c := range models.Categories {
		inCategory := cat.ByCategory(c)
		if len(inCategory) == 0 {
			continue
		}
		fmt.Printf("\n┌─ %s\n", c.Label())
		for i, a := range inCategory {
			fmt.Printf("%s %-28s %4d pts  %s\n", common.BoxPrefix(i == len(inCategory)-1), a.Id, a.Points, a.Description)
		}
	}
	common.PrintFooter(fmt.Sprintf("%d actions", len(cat.Actions())), common.WideWidth)
}

func record(ctx context.Context, svc *api.Service, req *recordRequest) (models.Points, error) {
	if len(req.actions) > 0 {
		return svc.ApplyActions(ctx, req.username, req.actions)
	}
	if err := svc.AddPoints(ctx, req.username, req.category, req.points); err != nil {
		return 0, err
	}
	return req.points, nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid arguments", zap.Error(err))
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

	if req.list {
		printCatalog(services.Catalog)
		return
	}

	if err := services.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start services", zap.Error(err))
	}

	if err := services.Api.Authenticate(ctx, req.username, req.password); err != nil {
		if errors.Is(err, ledger.ErrAuthenticationFailed) {
			zap.L().Fatal("Authentication failed", zap.String("username", req.username), zap.Error(err))
		}
		zap.L().Fatal("Failed to authenticate", zap.Error(err))
	}

	added, err := record(ctx, services.Api, req)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownAction) {
			zap.L().Fatal("Unknown action, run with --list to see the catalog", zap.Error(err))
		}
		zap.L().Fatal("Failed to record points", zap.Error(err))
	}

	user, err := services.Api.GetUser(ctx, req.username)
	if err != nil {
		zap.L().Fatal("Failed to read updated scores", zap.Error(err))
	}

	common.PrintHeader(fmt.Sprintf("%d POINTS RECORDED FOR %s", added, user.Username), common.DefaultWidth)
	common.PrintScoreLines(user.Scores)
	common.PrintSeparator("=", common.DefaultWidth)

	zap.L().Info("Points recorded",
		zap.String("username", user.Username),
		zap.Int("added", int(added)),
		zap.Int("total", int(user.Total)))
}
