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

package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecoscore-go/internal/rollover"

	"go.uber.org/zap"
)

// RolloverRunner performs the rollover when it is due
type RolloverRunner interface {
	RunIfDue(ctx context.Context) (*rollover.Result, error)
}

// RolloverListenerConfig contains configuration for RolloverListener
type RolloverListenerConfig struct {
	Runner          RolloverRunner
	PollingInterval time.Duration
}

// RolloverListener periodically checks whether the weekly rollover is due
// and runs it, so a long-lived process rolls over without a restart.
type RolloverListener struct {
	runner          RolloverRunner
	pollingInterval time.Duration

	mutex      sync.RWMutex
	lastResult *rollover.Result
	lastErr    error
	checks     int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewRolloverListener creates a new rollover listener
func NewRolloverListener(cfg RolloverListenerConfig) *RolloverListener {
	return &RolloverListener{
		runner:          cfg.Runner,
		pollingInterval: cfg.PollingInterval,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start performs an immediate check and then polls in the background.
// A failing first check is returned and the loop is not started.
func (l *RolloverListener) Start(ctx context.Context) error {
	if l.pollingInterval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %s", l.pollingInterval)
	}

	zap.L().Info("Starting rollover listener")

	if err := l.check(ctx); err != nil {
		return fmt.Errorf("startup rollover check failed: %w", err)
	}

	go l.pollLoop(ctx)

	zap.L().Info("Rollover listener started successfully",
		zap.Duration("polling_interval", l.pollingInterval))
	return nil
}

// Stop gracefully stops the listener and waits for the poll loop to exit.
// It must only be called after a successful Start.
func (l *RolloverListener) Stop() {
	zap.L().Info("Stopping rollover listener")
	l.stopOnce.Do(func() { close(l.stopChan) })
	<-l.doneChan
	zap.L().Info("Rollover listener stopped")
}

// LastResult returns the outcome of the most recent check
func (l *RolloverListener) LastResult() (*rollover.Result, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.lastResult, l.lastErr
}

// Checks returns how many checks have completed
func (l *RolloverListener) Checks() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.checks
}

func (l *RolloverListener) pollLoop(ctx context.Context) {
	defer close(l.doneChan)

	ticker := time.NewTicker(l.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := l.check(ctx); err != nil {
				// Retried on the next tick
				zap.L().Error("Rollover check failed", zap.Error(err))
			}
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (l *RolloverListener) check(ctx context.Context) error {
	result, err := l.runner.RunIfDue(ctx)

	l.mutex.Lock()
	l.checks++
	l.lastResult = result
	l.lastErr = err
	l.mutex.Unlock()

	if err != nil {
		return err
	}
	if result.Ran {
		zap.L().Info("Rollover performed by listener",
			zap.String("snapshot_date", result.Date.String()),
			zap.Int("archived", result.Archived))
	}
	return nil
}
