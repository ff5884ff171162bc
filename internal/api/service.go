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
	"ecoscore-go/internal/goals"
	"ecoscore-go/internal/leaderboard"
	"ecoscore-go/internal/ledger"
	"ecoscore-go/internal/models"
	"ecoscore-go/internal/rollover"
	"ecoscore-go/internal/store"
	"ecoscore-go/internal/trend"
)

type options struct {
	ledger   []ledger.Option
	rollover []rollover.Option
}

type Option func(*options)

func WithClock(clock rollover.Clock) Option {
	return func(o *options) {
		o.rollover = append(o.rollover, rollover.WithClock(clock))
	}
}

func WithRolloverPeriod(days int) Option {
	return func(o *options) {
		o.rollover = append(o.rollover, rollover.WithPeriod(days))
	}
}

func WithPasswordCost(cost int) Option {
	return func(o *options) {
		o.ledger = append(o.ledger, ledger.WithPasswordCost(cost))
	}
}

// Service is the single entry point used by the CLIs and any UI
type Service struct {
	store       store.Store
	catalog     *catalog.Catalog
	ledger      *ledger.Ledger
	scheduler   *rollover.Scheduler
	leaderboard *leaderboard.Engine
	trend       *trend.Engine
	goals       *goals.Evaluator
}

func NewService(st store.Store, cat *catalog.Catalog, opts ...Option) *Service {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if cat == nil {
		cat = catalog.Default()
	}

	l := ledger.New(st, cat, o.ledger...)
	return &Service{
		store:       st,
		catalog:     cat,
		ledger:      l,
		scheduler:   rollover.New(st, l, o.rollover...),
		leaderboard: leaderboard.New(l),
		trend:       trend.New(l),
		goals:       goals.New(l, cat),
	}
}

// Start performs any rollover that became due while the process was down.
// Call it before serving reads of live scores.
func (s *Service) Start(ctx context.Context) (*rollover.Result, error) {
	return s.RunIfDue(ctx)
}

// Actions lists the catalog in display order
func (s *Service) Actions() []models.Action {
	return s.catalog.Actions()
}

func (s *Service) Goals() []models.Goal {
	return s.catalog.Goals()
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if _, err := s.store.LoadUsers(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	if _, err := s.store.LoadMarker(ctx); err != nil && !errors.Is(err, store.ErrNoMarker) {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
