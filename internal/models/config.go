package models

import "time"

// Config represents the application configuration
type Config struct {
	Store           StoreConfig
	Rollover        RolloverConfig
	Listener        ListenerConfig
	Catalog         CatalogConfig
	Log             LogConfig
	CreateDemoUsers bool
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Backend  string // "sqlite" or "csv"
	Database DatabaseConfig
	CSVDir   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// RolloverConfig holds weekly rollover settings
type RolloverConfig struct {
	PeriodDays int
}

// ListenerConfig holds settings for the long-running rollover listener
type ListenerConfig struct {
	PollingInterval time.Duration
}

// CatalogConfig points at an optional yaml file overriding the built-in
// actions and goals
type CatalogConfig struct {
	File string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
	Dev   bool
}
