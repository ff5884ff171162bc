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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ecoscore-go/internal/models"
)

const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	pollingInterval, err := getEnvDuration("LISTENER_POLLING_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	if pollingInterval <= 0 {
		return nil, fmt.Errorf("LISTENER_POLLING_INTERVAL must be positive, got %s", pollingInterval)
	}

	backend := strings.ToLower(getEnvString("STORE_BACKEND", BackendSQLite))
	if backend != BackendSQLite && backend != BackendCSV {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: expected %s or %s", backend, BackendSQLite, BackendCSV)
	}

	periodDays := getEnvInt("ROLLOVER_PERIOD_DAYS", 7)
	if periodDays <= 0 {
		return nil, fmt.Errorf("ROLLOVER_PERIOD_DAYS must be positive, got %d", periodDays)
	}

	return &models.Config{
		Store: models.StoreConfig{
			Backend: backend,
			Database: models.DatabaseConfig{
				Path:            getEnvString("DATABASE_PATH", "ecoscore.db"),
				MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: connMaxLifetime,
				ConnMaxIdleTime: connMaxIdleTime,
				PingTimeout:     pingTimeout,
			},
			CSVDir: getEnvString("CSV_DATA_DIR", "data"),
		},
		Rollover: models.RolloverConfig{
			PeriodDays: periodDays,
		},
		Listener: models.ListenerConfig{
			PollingInterval: pollingInterval,
		},
		Catalog: models.CatalogConfig{
			File: getEnvString("CATALOG_FILE", ""),
		},
		Log:             LoadLog(),
		CreateDemoUsers: getEnvBool("CREATE_DEMO_USERS", false),
	}, nil
}

// LoadLog reads only the logger settings, so the logger can exist before the
// rest of the configuration is validated. LOG_LEVEL defaults to debug when
// LOG_DEV is set.
func LoadLog() models.LogConfig {
	dev := getEnvBool("LOG_DEV", false)
	level := getEnvString("LOG_LEVEL", "info")
	if os.Getenv("LOG_LEVEL") == "" && dev {
		level = "debug"
	}
	return models.LogConfig{Level: strings.ToLower(level), Dev: dev}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
